package smartscreen

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Open connects to the panel on port and returns its driver.
//
// Supported revisions are RevA, RevB and RevC, a RevB request resolves to RevB0 or RevB1
// depending on the panel. The transport is closed if the driver cannot be set up.
func Open(rev Revision, port string, config *Config) (Screen, error) {
	var driver func(Transport, *Config) (Screen, error)
	switch rev {
	case RevA:
		driver = RevisionA
	case RevB:
		driver = RevisionB
	case RevC:
		driver = RevisionC
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRevision, rev)
	}
	if config == nil {
		config = new(Config)
	}

	open := config.Open
	if open == nil {
		open = openSerial
	}
	t, err := open(port, config.Serial)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPortUnavailable, port, err)
	}

	s, err := driver(t, config)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	log.Debug().Str("port", port).Stringer("revision", s.Revision()).Msg("open")
	return s, nil
}
