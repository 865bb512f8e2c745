// Package config loads the smartscreen command line settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/smartscreen/conn"
)

// FileName is the configuration file name inside the user config directory.
const FileName = "smartscreen.toml"

// Values are the settings read from the configuration file.
type Values struct {
	Port        string `toml:"port"`
	Revision    string `toml:"revision"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Baud        int    `toml:"baud"`
	ReadTimeout string `toml:"read_timeout"`
	Retries     int    `toml:"retries"`
	RetryDelay  string `toml:"retry_delay"`
}

// Defaults apply to every setting the file leaves out.
var Defaults = Values{
	Revision:    "b",
	Baud:        115200,
	ReadTimeout: "1s",
	Retries:     3,
	RetryDelay:  "1s",
}

// DefaultPath is the configuration file in the user config directory, empty if there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "smartscreen", FileName)
}

// Load reads the file at path on top of defaults. A missing file is an error, unless
// optional is set, in which case the defaults are returned.
func Load(fsys afero.Fs, path string, optional bool, defaults Values) (Values, error) {
	if path == "" {
		return defaults, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	vals := defaults
	if err = toml.Unmarshal(data, &vals); err != nil {
		return defaults, fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
	}
	if err = vals.Validate(); err != nil {
		return defaults, fmt.Errorf("config: %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("loaded config")
	return vals, nil
}

// Validate checks the numeric settings and durations.
func (v Values) Validate() error {
	if v.Width < 0 || v.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", v.Width, v.Height)
	}
	if v.Baud < 0 {
		return fmt.Errorf("invalid baud rate %d", v.Baud)
	}
	if v.Retries < 0 {
		return fmt.Errorf("invalid retries %d", v.Retries)
	}
	if _, err := v.ReadTimeoutDuration(); err != nil {
		return err
	}
	if _, err := v.RetryDelayDuration(); err != nil {
		return err
	}
	return nil
}

// ReadTimeoutDuration parses ReadTimeout, empty means the serial default.
func (v Values) ReadTimeoutDuration() (time.Duration, error) {
	return parseDuration("read_timeout", v.ReadTimeout, conn.DefaultSerialConfig.ReadTimeout)
}

// RetryDelayDuration parses RetryDelay, empty means no delay.
func (v Values) RetryDelayDuration() (time.Duration, error) {
	return parseDuration("retry_delay", v.RetryDelay, 0)
}

// SerialConfig is the serial line configuration for these values.
func (v Values) SerialConfig() (*conn.SerialConfig, error) {
	timeout, err := v.ReadTimeoutDuration()
	if err != nil {
		return nil, err
	}
	config := conn.DefaultSerialConfig
	if v.Baud > 0 {
		config.Baud = physic.Frequency(v.Baud) * physic.Hertz
	}
	config.ReadTimeout = timeout
	return &config, nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", key, value)
	}
	return d, nil
}
