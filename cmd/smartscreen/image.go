package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BeatGlow/smartscreen"
	"github.com/BeatGlow/smartscreen/internal/imagefile"
)

func newImageCmd(a *app) *cobra.Command {
	var (
		file string
		x, y int
		fit  bool
	)
	cmd := &cobra.Command{
		Use:   "image",
		Short: "display an image file",
		Long: `Display an image file (PNG, JPEG, GIF, BMP, TIFF or WebP) with its top left corner at x,y.

With --fit the image is scaled down to fit the panel.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withScreen(func(s smartscreen.Screen) error {
				var (
					img *imagefile.Image
					err error
				)
				if fit {
					img, err = imagefile.LoadFit(a.fs, file, s.Width()-x, s.Height()-y)
				} else {
					img, err = imagefile.Load(a.fs, file)
				}
				if err != nil {
					return err
				}

				buf, err := s.CreateBuffer(img.Width, img.Height)
				if err != nil {
					return err
				}
				if err = buf.LoadRGB(img.Width, img.Height, img.Pix); err != nil {
					return err
				}
				log.Debug().Str("file", file).Int("width", img.Width).Int("height", img.Height).Msg("display image")
				return s.DisplayBufferAt(x, y, buf)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "image file")
	cmd.Flags().IntVarP(&x, "x", "x", 0, "position x")
	cmd.Flags().IntVarP(&y, "y", "y", 0, "position y")
	cmd.Flags().BoolVar(&fit, "fit", false, "scale the image down to fit the panel")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newFillCmd(a *app) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "fill the panel with a color",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := parseColor(value)
			if err != nil {
				return err
			}
			return a.withScreen(func(s smartscreen.Screen) error {
				buf, err := s.CreateBuffer(s.Width(), s.Height())
				if err != nil {
					return err
				}
				buf.Clear(c.R, c.G, c.B)
				return s.DisplayBuffer(buf)
			})
		},
	}
	cmd.Flags().StringVarP(&value, "color", "c", "000000", "color as RRGGBB")
	return cmd
}
