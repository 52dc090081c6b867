package database

import (
	"embed"
	stdfs "io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (or creates) the sqlite database file. Transactions are taken
// immediate so check-then-act sequences (ownership verification followed by a
// write) serialize against concurrent writers.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Path)
}

func open(path string) (*sqlx.DB, error) {
	if path == "" {
		path = "teacher_portal.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sqlx.Connect("sqlite3", path+sep+"_txlock=immediate")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// journal_mode is not supported for in-memory databases; ignore errors.
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "setting busy_timeout")
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "enabling foreign_keys")
	}
	return db, nil
}

type migration struct {
	version int
	name    string
	file    string // path inside the embedded FS
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.sql$`)

// Migrate applies all pending migrations, in version order, each in its own
// transaction.
func Migrate(db *sqlx.DB) error {
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if applied[m.version] {
			continue
		}
		sqlText, err := migrationsFS.ReadFile(m.file)
		if err != nil {
			return errors.Wrapf(err, "reading migration %04d", m.version)
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlText)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "migration %04d (%s) failed", m.version, m.name)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// PendingMigrations returns the names of migrations not yet applied.
func PendingMigrations(db *sqlx.DB) ([]string, error) {
	migs, err := loadMigrations()
	if err != nil {
		return nil, err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}
	pending := make([]string, 0, len(migs))
	for _, m := range migs {
		if !applied[m.version] {
			pending = append(pending, m.name)
		}
	}
	return pending, nil
}

func loadMigrations() ([]migration, error) {
	list, err := stdfs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "reading migrations dir")
	}

	migs := make([]migration, 0, len(list))
	for _, de := range list {
		if de.IsDir() {
			continue
		}
		m := migFileRe.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		var version int
		for _, c := range m[1] {
			version = version*10 + int(c-'0')
		}
		migs = append(migs, migration{version: version, name: m[2], file: "migrations/" + de.Name()})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].version < migs[j].version })
	return migs, nil
}

func appliedVersions(db *sqlx.DB) (map[int]bool, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (CURRENT_TIMESTAMP)
	)`); err != nil {
		return nil, errors.Wrap(err, "ensuring schema_migrations")
	}

	var versions []int
	if err := db.Select(&versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}
