package postgres

//nolint:revive
import (
	"sizopi/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 20
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection holds the read and write pools. Every unit of work that mutates
// state goes through Write, either directly or via WithTransaction.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type target struct {
	name   string
	node   config.PostgresNode
	dbName string
}

func (t target) logFields(e *zerolog.Event) *zerolog.Event {
	return e.Str("name", t.name).Str("host", t.node.Host).Str("port", t.node.Port).Str("dbName", t.dbName)
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	read := target{name: "read", node: pg.Read, dbName: DatabaseName(cfg, pg.Read.Name)}
	write := target{name: "write", node: pg.Write, dbName: DatabaseName(cfg, pg.Write.Name)}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DatabaseName applies DB_POSTGRES_PREFIX, which lets test runs share a
// server with their own databases.
func DatabaseName(cfg *config.Config, baseName string) string {
	return cfg.DB.Postgres.Prefix + baseName
}

func connect(t target, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", t.node.URL(t.dbName, nil))
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			t.logFields(log.Info()).Msg("Connected to database")

			return db
		}

		t.logFields(log.Error().Err(err)).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		if attempt < attempts {
			time.Sleep(time.Duration(waitSeconds) * time.Second)
		}
	}

	t.logFields(log.Fatal()).Msg("Could not connect to database")

	return nil
}
