package assistant

import (
	"context"
	"fmt"
)

// Calibrate measures ambient noise for the configured duration.
func (a *Assistant) Calibrate(ctx context.Context) error {
	a.say(ctx, sayCalibrating)
	if err := a.deps.Listener.Calibrate(ctx, a.opts.Calibration); err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	a.say(ctx, sayCalibrated)
	return nil
}

// SelfTest asks the user to confirm they can hear the assistant. Without a
// confirmation it recalibrates once and reports passed=false.
func (a *Assistant) SelfTest(ctx context.Context) (passed bool, err error) {
	a.say(ctx, sayTestingAudio)
	a.say(ctx, sayTestPrompt)

	text, ok := a.listen(ctx, a.opts.ListenTimeout)
	if ok && containsAny(text, ConfirmWord) {
		a.say(ctx, sayTestPassed)
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.say(ctx, sayTestRecalibrate)
	return false, a.Calibrate(ctx)
}
