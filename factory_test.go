package smartscreen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"

	smartconn "github.com/BeatGlow/smartscreen/conn"
)

func openWith(t Transport, err error, opened *int) *Config {
	return &Config{
		Open: func(string, *smartconn.SerialConfig) (Transport, error) {
			*opened++
			if err != nil {
				return nil, err
			}
			return t, nil
		},
	}
}

func TestOpenUnsupportedRevision(t *testing.T) {
	for _, rev := range []Revision{RevUnknown, RevB0, RevB1, Revision(99)} {
		var opened int
		_, err := Open(rev, "/dev/ttyACM0", openWith(playback(), nil, &opened))
		assert.ErrorIs(t, err, ErrUnsupportedRevision, rev.String())
		assert.Zero(t, opened, "nothing opened for %s", rev)
	}
}

func TestOpenPortUnavailable(t *testing.T) {
	var (
		opened int
		cause  = errors.New("no such file or directory")
	)
	_, err := Open(RevA, "/dev/ttyACM9", openWith(nil, cause, &opened))
	assert.ErrorIs(t, err, ErrPortUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/dev/ttyACM9")
	assert.Equal(t, 1, opened)
}

func TestOpenDetectsRevisionB(t *testing.T) {
	tests := []struct {
		Name  string
		Reply []byte
		Want  Revision
	}{
		{"B0", revB0Reply, RevB0},
		{"B1", revB1Reply, RevB1},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			var opened int
			pb := playback(conntest.IO{W: revBHelloFrame, R: test.Reply})
			s, err := Open(RevB, "/dev/ttyACM0", openWith(pb, nil, &opened))
			require.NoError(it, err)
			assert.Equal(it, test.Want, s.Revision())
			require.NoError(it, s.Close())
		})
	}
}

func TestOpenRevisionA(t *testing.T) {
	var opened int
	s, err := Open(RevA, "/dev/ttyACM0", openWith(playback(), nil, &opened))
	require.NoError(t, err)
	assert.Equal(t, RevA, s.Revision())
	assert.Equal(t, 320, s.Width())
	assert.Equal(t, 480, s.Height())
	require.NoError(t, s.Close())
}

func TestOpenClosesTransportOnFailure(t *testing.T) {
	tests := []struct {
		Name   string
		Rev    Revision
		Ops    []conntest.IO
		Config Config
	}{
		{"bad hello", RevC, []conntest.IO{{W: revCHelloIO().W, R: make([]byte, 23)}}, Config{}},
		{"hello timeout", RevB, nil, Config{}},
		{"invalid size", RevA, nil, Config{Width: -1}},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			ft := &faultTransport{Playback: playback(test.Ops...)}
			if test.Ops == nil {
				ft.err = smartconn.ErrTimeout
			}
			var opened int
			config := test.Config
			config.Open = openWith(ft, nil, &opened).Open

			s, err := Open(test.Rev, "/dev/ttyACM0", &config)
			assert.Error(it, err)
			assert.Nil(it, s)
			assert.Equal(it, 1, ft.closed)
		})
	}
}
