package main

import (
	"image"
	"image/color"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BeatGlow/smartscreen"
	"github.com/BeatGlow/smartscreen/draw"
	"github.com/BeatGlow/smartscreen/pixel"
)

func newPatternCmd(a *app) *cobra.Command {
	var (
		frames   int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "show a test card",
		Long: `Show a test card: a white border, diagonals and a color gradient.

With --frames the gradient cycles for the given number of frames.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withScreen(func(s smartscreen.Screen) error {
				return a.pattern(s, max(frames, 1), interval)
			})
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 1, "number of frames to show")
	cmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "delay between frames")
	return cmd
}

func (a *app) pattern(s smartscreen.Screen, frames int, interval time.Duration) error {
	var (
		output = smartscreen.NewDrawer(s)
		r      = output.Bounds()
		white  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		inner  = r.Inset(1)
	)
	card, err := pixel.NewFramebuffer(r.Dx(), r.Dy())
	if err != nil {
		return err
	}
	ticker := a.clock.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()
	log.Info().Msgf("showing test card on %s", output)

	for offset := 0; offset < frames; offset++ {
		if offset > 0 {
			<-ticker.Chan()
		}

		// Draw gradient inside box
		from := color.RGBA{R: uint8(offset * 8), G: 0x20, B: 0xff - uint8(offset*8), A: 0xff}
		to := color.RGBA{R: 0xff - uint8(offset*8), G: 0xe0, B: uint8(offset * 8), A: 0xff}
		draw.Gradient(card, inner, from, to)

		draw.Rectangle(card, r, white)
		draw.Line(card, inner.Min, inner.Max.Sub(image.Pt(1, 1)), white)
		draw.Line(card, image.Pt(inner.Min.X, inner.Max.Y-1), image.Pt(inner.Max.X-1, inner.Min.Y), white)

		if err := output.Draw(r, card, image.Point{}); err != nil {
			return err
		}
	}
	return nil
}
