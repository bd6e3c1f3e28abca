// Package prompt asks for calibration values on a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/palmtools/palminfo/pkg/calibration"
)

var _ calibration.FieldSource = &Terminal{}

// Terminal is a calibration.FieldSource that reads one line per field.
//
// An empty line keeps the offered default, "q" or end of input cancels, and
// anything that is not a number is asked again.
type Terminal struct {
	Title string

	in  *bufio.Reader
	out io.Writer
}

// New returns a Terminal reading from in and writing prompts to out.
func New(title string, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		Title: title,
		in:    bufio.NewReader(in),
		out:   out,
	}
}

// IsInteractive reports whether stdin and stderr are both terminals, which
// is where a Terminal created by the CLI reads and prompts.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func (t *Terminal) Request(ctx context.Context, fields []calibration.Field) ([]float64, error) {
	if t.Title != "" {
		fmt.Fprintln(t.out, color.New(color.Bold).Sprint(t.Title))
	}

	ret := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := t.ask(ctx, f)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func (t *Terminal) ask(ctx context.Context, f calibration.Field) (float64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprintf(t.out, "%s [%s]: ", f.Label, strconv.FormatFloat(f.Default, 'f', f.Decimals, 64))

		line, err := t.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			fmt.Fprintln(t.out)
			if err == io.EOF {
				return 0, calibration.ErrUserCancelled
			}
			return 0, fmt.Errorf("failed to read %s: %w", f.Label, err)
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			return f.Default, nil
		case "q", "quit":
			return 0, calibration.ErrUserCancelled
		}

		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(t.out, color.RedString("not a number: %s", line))
			continue
		}
		return v, nil
	}
}
