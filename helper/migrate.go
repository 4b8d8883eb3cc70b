package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"sizopi/config"
	"sizopi/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionStepUp  Action = "step-up"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

// ParseAction maps a command line argument to a migration action.
func ParseAction(arg string) (Action, error) {
	switch action := Action(arg); action {
	case ActionUp, ActionDown, ActionStepUp, ActionDrop, ActionVersion:
		return action, nil
	default:
		return "", fmt.Errorf("invalid migration action %q, use up, down, step-up, drop or version", arg)
	}
}

// ConnectionString builds the golang-migrate URL for the write database.
func ConnectionString(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	var params url.Values
	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		params = url.Values{"x-migrations-table": {table}}
	}

	return write.URL(postgres.DatabaseName(cfg, write.Name), params)
}

func Runner(cfg *config.Config, action Action) error {
	mig, err := migrate.New(migrationSource, ConnectionString(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migration version")

		return nil
	default:
		return fmt.Errorf("unsupported migration action %q", action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
