package logger

import (
	"io"
	"os"
	"sizopi/config"
	"sizopi/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human-readable console logger at trace level so that
// configuration loading itself is visible. SetLogLevel narrows it afterwards.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL, falling back to trace. Production
// writes JSON lines for log shippers instead of the console format.
func SetLogLevel(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		useWriter(os.Stdout)
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Info().Str("loglevel", level.String()).Str("env", cfg.Server.Env).Msg("Log level configured.")
}

func useWriter(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "sizopi").Logger()
}
