package main

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/smartscreen"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "reset the panel",
		Long: `Reset the panel.

The panel reboots and drops off the bus, a disconnect is therefore not an error.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withScreen(func(s smartscreen.Screen) error {
				if err := s.Reset(); err != nil && !smartscreen.IsDisconnected(err) {
					return err
				}
				return nil
			})
		},
	}
}

// simpleCmd runs a single screen operation.
func simpleCmd(a *app, use, short string, op func(smartscreen.Screen) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withScreen(op)
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return simpleCmd(a, "clear", "clear the panel", smartscreen.Screen.Clear)
}

func newOnCmd(a *app) *cobra.Command {
	return simpleCmd(a, "on", "turn the screen on", smartscreen.Screen.ScreenOn)
}

func newOffCmd(a *app) *cobra.Command {
	return simpleCmd(a, "off", "turn the screen off", smartscreen.Screen.ScreenOff)
}

func newBrightCmd(a *app) *cobra.Command {
	var level uint8
	cmd := &cobra.Command{
		Use:   "bright",
		Short: "set the brightness (0-255)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withScreen(func(s smartscreen.Screen) error {
				return s.SetBrightness(level)
			})
		},
	}
	cmd.Flags().Uint8VarP(&level, "level", "l", 0, "brightness level, 255 is brightest")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func newRawCmd(a *app) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   "raw",
		Short: "send a raw command byte",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			b, err := strconv.ParseUint(command, 0, 8)
			if err != nil {
				return fmt.Errorf("invalid command %q: %w", command, err)
			}
			return a.withScreen(func(s smartscreen.Screen) error {
				return s.WriteRaw(byte(b))
			})
		},
	}
	cmd.Flags().StringVarP(&command, "commandx", "c", "", "command byte, decimal or 0x prefixed hex")
	_ = cmd.MarkFlagRequired("commandx")
	return cmd
}

func newOrientationCmd(a *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "orientation",
		Short: "set the orientation",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			o, err := smartscreen.ParseOrientation(mode)
			if err != nil {
				return err
			}
			return a.withScreen(func(s smartscreen.Screen) error {
				return s.SetOrientation(o)
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "l, landscape, p or portrait")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}

func newLEDCmd(a *app) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "led",
		Short: "set the status LED color (revision B1)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := parseColor(value)
			if err != nil {
				return err
			}
			return a.withScreen(func(s smartscreen.Screen) error {
				led, ok := s.(smartscreen.LEDSetter)
				if !ok {
					return fmt.Errorf("%w: revision %s has no status LED", smartscreen.ErrUnsupported, s.Revision())
				}
				return led.SetLED(c.R, c.G, c.B)
			})
		},
	}
	cmd.Flags().StringVarP(&value, "color", "c", "", "color as RRGGBB")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

// parseColor parses RRGGBB, optionally prefixed with '#'.
func parseColor(s string) (color.RGBA, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(b) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected RRGGBB", s)
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}
