package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type actions interface {
	Converse(ctx context.Context) error
	Calibrate(ctx context.Context) error
	SelfTest(ctx context.Context) (bool, error)
	SingleCommand(ctx context.Context) error
}

// runMenu prints the numbered menu, reads one line and runs that choice.
// Anything but 1-4 exits.
func runMenu(ctx context.Context, in io.Reader, out io.Writer, title string, a actions) error {
	fmt.Fprintf(out, "🎙️ %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintln(out, "1. התחל שיחה")
	fmt.Fprintln(out, "2. כיול מיקרופון")
	fmt.Fprintln(out, "3. בדיקת אודיו")
	fmt.Fprintln(out, "4. פקודה בודדת")
	fmt.Fprintln(out, "5. יציאה")
	fmt.Fprint(out, "\nבחר אפשרות: ")

	var choice string
	sc := bufio.NewScanner(in)
	if sc.Scan() {
		choice = strings.TrimSpace(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading choice: %w", err)
	}

	switch choice {
	case "1":
		return a.Converse(ctx)
	case "2":
		return a.Calibrate(ctx)
	case "3":
		_, err := a.SelfTest(ctx)
		return err
	case "4":
		return a.SingleCommand(ctx)
	default:
		fmt.Fprintln(out, "להתראות!")
		return nil
	}
}
