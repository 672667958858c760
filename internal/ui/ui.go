package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const PathColor = "#87CEEB"

// UI prints human-facing messages. Logs go through zerolog; this is for results and errors.
type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, errOut io.Writer, mode ColorMode) *UI {
	output := termenv.NewOutput(out)
	return &UI{
		Out:          out,
		Err:          errOut,
		Output:       output,
		ErrOutput:    termenv.NewOutput(errOut),
		ColorEnabled: colorEnabled(output, mode),
	}
}

func colorEnabled(output *termenv.Output, mode ColorMode) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

func (u *UI) print(w io.Writer, output *termenv.Output, color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = output.String(msg).Foreground(output.Color(color)).String()
	}
	fmt.Fprintln(w, msg)
}

func (u *UI) Errorf(format string, args ...any) {
	u.print(u.Err, u.ErrOutput, "1", format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.print(u.Err, u.ErrOutput, "3", format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.print(u.Out, u.Output, "4", format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.print(u.Out, u.Output, "2", format, args...)
}

// Path highlights a file path inside a message.
func (u *UI) Path(text string) string {
	if !u.ColorEnabled || u.Output == nil {
		return text
	}
	return u.Output.String(text).Foreground(u.Output.Color(PathColor)).Bold().String()
}

// StartIndicator draws an elapsed-time spinner on Err until the returned func is called.
// It is a no-op when Err is not a terminal.
func (u *UI) StartIndicator(label string) func() {
	if u.Err == nil || u.ErrOutput.ColorProfile() == termenv.Ascii {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-done:
				fmt.Fprint(u.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				fmt.Fprintf(u.Err, "\r\033[2K%s %ds %s", label, seconds, frames[i%len(frames)])
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func NormalizeColorMode(value string) ColorMode {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAlways:
		return ColorAlways
	case ColorNever:
		return ColorNever
	default:
		return ColorAuto
	}
}
