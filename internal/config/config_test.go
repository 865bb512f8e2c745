package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/smartscreen/conn"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/etc/smartscreen.toml", `
port = "/dev/ttyACM0"
revision = "c"
read_timeout = "250ms"
`)

	vals, err := Load(fsys, "/etc/smartscreen.toml", false, Defaults)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", vals.Port)
	assert.Equal(t, "c", vals.Revision)
	assert.Equal(t, "250ms", vals.ReadTimeout)
	assert.Equal(t, Defaults.Baud, vals.Baud, "default kept")
	assert.Equal(t, Defaults.Retries, vals.Retries, "default kept")
}

func TestLoadMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()

	vals, err := Load(fsys, "/nope.toml", true, Defaults)
	require.NoError(t, err)
	assert.Equal(t, Defaults, vals)

	_, err = Load(fsys, "/nope.toml", false, Defaults)
	assert.ErrorContains(t, err, "failed to read")

	vals, err = Load(fsys, "", false, Defaults)
	require.NoError(t, err)
	assert.Equal(t, Defaults, vals)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		Name    string
		Content string
		Want    string
	}{
		{"syntax", `port = `, "failed to unmarshal"},
		{"type", `width = "wide"`, "failed to unmarshal"},
		{"size", `height = -1`, "invalid size"},
		{"timeout", `read_timeout = "soon"`, "invalid read_timeout"},
		{"delay", `retry_delay = "-1s"`, "negative"},
		{"retries", `retries = -2`, "invalid retries"},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(it, fsys, "/c.toml", test.Content)
			_, err := Load(fsys, "/c.toml", true, Defaults)
			assert.ErrorContains(it, err, test.Want)
		})
	}
}

func TestSerialConfig(t *testing.T) {
	config, err := Values{Baud: 921600, ReadTimeout: "2s"}.SerialConfig()
	require.NoError(t, err)
	assert.Equal(t, 921600*physic.Hertz, config.Baud)
	assert.Equal(t, 2*time.Second, config.ReadTimeout)
	assert.Equal(t, conn.DefaultSerialConfig.BatchSize, config.BatchSize)

	config, err = Values{}.SerialConfig()
	require.NoError(t, err)
	assert.Equal(t, conn.DefaultSerialConfig, *config)
}

func TestRetryDelay(t *testing.T) {
	d, err := Values{}.RetryDelayDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = Defaults.RetryDelayDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}
