package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// init instantiates the disabled global logger and configures the zerolog package globals every logger in the
// process shares.
func init() {
	// Instantiate the global logger, which stays disabled until a service or the CLI enables it
	GlobalLogger = NewLogger(zerolog.Disabled)

	// Setup stack trace support and set the timestamp format to UNIX
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
