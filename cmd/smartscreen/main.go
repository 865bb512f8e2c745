// Command smartscreen controls USB smart screen panels.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/BeatGlow/smartscreen"
	"github.com/BeatGlow/smartscreen/conn"
	"github.com/BeatGlow/smartscreen/internal/config"
	"github.com/BeatGlow/smartscreen/internal/retry"
)

const debugEnv = "SMARTSCREEN_DEBUG"

// app is the state shared by all commands.
type app struct {
	fs     afero.Fs
	clock  clockwork.Clock
	stderr io.Writer
	open   func(name string, config *conn.SerialConfig) (smartscreen.Transport, error)

	configPath string
	revision   string
	port       string
	width      int
	height     int
	timeout    time.Duration
	retries    int
	debug      bool

	vals config.Values
}

func newApp() *app {
	return &app{
		fs:     afero.NewOsFs(),
		clock:  clockwork.NewRealClock(),
		stderr: os.Stderr,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "smartscreen",
		Short:         "control USB smart screen panels",
		Long:          "Control USB smart screen panels (revision A, B and C) over their serial port.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.setupLogging()
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.revision, "revision", "r", config.Defaults.Revision, "panel revision (a, b or c)")
	flags.StringVarP(&a.port, "port", "p", "", "serial port, e.g. /dev/ttyACM0 or COM3")
	flags.StringVar(&a.configPath, "config", "", "configuration file (default "+config.FileName+" in the user config directory)")
	flags.IntVar(&a.width, "width", 0, "panel width in pixels (default per revision)")
	flags.IntVar(&a.height, "height", 0, "panel height in pixels (default per revision)")
	flags.DurationVar(&a.timeout, "timeout", 0, "reply timeout (default 1s)")
	flags.IntVar(&a.retries, "retries", config.Defaults.Retries, "retries while the port is unavailable")
	flags.BoolVar(&a.debug, "debug", false, "debug logging (also enabled by "+debugEnv+")")

	rootCmd.AddCommand(
		newResetCmd(a),
		newClearCmd(a),
		newOnCmd(a),
		newOffCmd(a),
		newBrightCmd(a),
		newRawCmd(a),
		newOrientationCmd(a),
		newImageCmd(a),
		newFillCmd(a),
		newLEDCmd(a),
		newPatternCmd(a),
	)
	return rootCmd
}

func (a *app) setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen})
	if a.debug || os.Getenv(debugEnv) != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig reads the configuration file, explicitly set flags take precedence.
func (a *app) loadConfig(cmd *cobra.Command) error {
	path, optional := a.configPath, false
	if path == "" {
		path, optional = config.DefaultPath(), true
	}
	vals, err := config.Load(a.fs, path, optional, config.Defaults)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("revision") {
		vals.Revision = a.revision
	}
	if flags.Changed("port") {
		vals.Port = a.port
	}
	if flags.Changed("width") {
		vals.Width = a.width
	}
	if flags.Changed("height") {
		vals.Height = a.height
	}
	if flags.Changed("timeout") {
		vals.ReadTimeout = a.timeout.String()
	}
	if flags.Changed("retries") {
		vals.Retries = a.retries
	}
	if err = vals.Validate(); err != nil {
		return err
	}
	a.vals = vals
	return nil
}

// withScreen opens the panel, runs fn and closes the panel again.
func (a *app) withScreen(fn func(smartscreen.Screen) error) (err error) {
	rev, err := smartscreen.ParseRevision(a.vals.Revision)
	if err != nil {
		return err
	}
	if a.vals.Port == "" {
		return errors.New("no port, use --port or set port in the configuration file")
	}
	serial, err := a.vals.SerialConfig()
	if err != nil {
		return err
	}
	delay, err := a.vals.RetryDelayDuration()
	if err != nil {
		return err
	}

	var (
		s      smartscreen.Screen
		policy = retry.Policy{Attempts: a.vals.Retries + 1, Delay: delay, Clock: a.clock}
		cfg    = &smartscreen.Config{
			Width:  a.vals.Width,
			Height: a.vals.Height,
			Serial: serial,
			Open:   a.open,
		}
	)
	if err = policy.Do(func() (err error) {
		s, err = smartscreen.Open(rev, a.vals.Port, cfg)
		return
	}, func(err error) bool {
		return errors.Is(err, smartscreen.ErrPortUnavailable)
	}); err != nil {
		return err
	}
	log.Debug().Msgf("using %s", s)

	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return fn(s)
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smartscreen: "+err.Error())
		os.Exit(1)
	}
}
