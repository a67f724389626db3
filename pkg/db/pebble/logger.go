package pebble

import "github.com/rs/zerolog"

// logger routes pebble's internal log lines into zerolog.
type logger struct {
	log *zerolog.Logger
}

func (l logger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l logger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

// Fatalf is called by pebble on unrecoverable corruption; it must not return.
func (l logger) Fatalf(format string, args ...interface{}) {
	l.log.Fatal().Msgf(format, args...)
}
