//go:build espeak

// Package espeak speaks through libespeak-ng linked in-process.
package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
vc_init(void)
{
	return espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
}

static int
vc_voice(const char *lang)
{
	espeak_VOICE props;
	memset(&props, 0, sizeof(props));
	props.languages = lang;
	return espeak_SetVoiceByProperties(&props);
}

static int
vc_rate(int rate)
{
	return espeak_SetParameter(espeakRATE, rate, 0);
}

static int
vc_say(const char *text)
{
	int rc = espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0,
		espeakCHARS_UTF8, NULL, NULL);
	if (rc != EE_OK)
	{ return rc; }
	return espeak_Synchronize();
}

static void
vc_terminate(void)
{
	espeak_Terminate();
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Engine owns the espeak-ng library state between Init and Close.
type Engine struct {
	voice string
	rate  int

	mu     sync.Mutex
	inited bool
}

func New(voice string, rate int) *Engine {
	return &Engine{voice: voice, rate: rate}
}

func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		return nil
	}
	if rc := C.vc_init(); rc < 0 {
		return fmt.Errorf("espeak_Initialize failed: %d", int(rc))
	}

	if e.voice != "" {
		cvoice := C.CString(e.voice)
		defer C.free(unsafe.Pointer(cvoice))
		if rc := C.vc_voice(cvoice); rc != C.EE_OK {
			C.vc_terminate()
			return fmt.Errorf("setting voice %q failed: %d", e.voice, int(rc))
		}
	}
	if e.rate > 0 {
		if rc := C.vc_rate(C.int(e.rate)); rc != C.EE_OK {
			C.vc_terminate()
			return fmt.Errorf("setting rate %d failed: %d", e.rate, int(rc))
		}
	}

	e.inited = true
	return nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		C.vc_terminate()
		e.inited = false
	}
	return nil
}

// Speak blocks until playback of text completes.
func (e *Engine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inited {
		return errors.New("espeak: Init must be called before Speak")
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.vc_say(ctext); rc != C.EE_OK {
		return fmt.Errorf("espeak_Synth failed: %d", int(rc))
	}
	return nil
}
