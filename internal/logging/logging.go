// Package logging builds the service logger and a pool recorder that writes
// every record to it.
package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to w at the given level.
// An empty level means info.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "parse log level %q", level)
		}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
