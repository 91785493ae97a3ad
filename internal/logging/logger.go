package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// For returns the process logger tagged with a component name.
func For(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
