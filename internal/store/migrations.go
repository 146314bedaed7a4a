package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

//go:embed migrations/001_kv.sql
var mig001 string

type migration struct {
	ID  string
	SQL string
}

var migrations = []migration{
	{ID: "001_kv.sql", SQL: mig001},
}

// runMigrations applies every pending migration. Each file holds a Down
// section followed by an Up section.
func runMigrations(log *logger.Logger, db *sql.DB) error {
	source := &migrate.MemoryMigrationSource{}

	for _, m := range migrations {
		down, up, found := strings.Cut(m.SQL, upMarker)
		if !found {
			return fmt.Errorf("migration %s missing %q separator", m.ID, upMarker)
		}
		if idx := strings.Index(down, downMarker); idx != -1 {
			down = down[idx+len(downMarker):]
		}
		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   m.ID,
			Up:   []string{strings.TrimSpace(up)},
			Down: []string{strings.TrimSpace(down)},
		})
	}

	n, err := migrate.Exec(db, "sqlite3", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Debugf("applied %d storage migrations", n)
	return nil
}
