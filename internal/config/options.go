package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/google/shlex"
)

// ApplyOptions applies a matrix option string written in the command line
// syntax of the rpi-rgb-led-matrix library, e.g.
//
//	--led-rows=32 --led-cols=64 --led-brightness=60 --led-gpio-chip=gpiochip0
func (m *MatrixConfig) ApplyOptions(s string) error {
	args, err := shlex.Split(s)
	if err != nil {
		return fmt.Errorf("%w: matrix options: %v", ErrInvalid, err)
	}
	return m.ApplyArgs(args)
}

// ApplyArgs applies already split matrix options. Unknown options are an
// error so typos do not go unnoticed.
func (m *MatrixConfig) ApplyArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	fs := flag.NewFlagSet("matrix", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&m.Height, "led-rows", m.Height, "panel rows")
	fs.IntVar(&m.Width, "led-cols", m.Width, "panel columns")
	fs.IntVar(&m.Brightness, "led-brightness", m.Brightness, "brightness in percent")
	fs.StringVar(&m.Chip, "led-gpio-chip", m.Chip, "gpio character device")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: matrix options: %v", ErrInvalid, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: matrix options: unexpected argument %q", ErrInvalid, fs.Arg(0))
	}
	return nil
}
