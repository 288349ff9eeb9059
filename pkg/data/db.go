package data

import (
	"database/sql"
	"embed"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default SQLite file name under the app home dir.
	DataFileName = "data.db"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

// Init creates the database file and schema if it does not exist yet.
// Safe to call on every start.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return errors.New("dbFilePath not specified")
	}

	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		db, err := GetDB(dbFilePath)
		if err != nil {
			return errors.Wrapf(err, "error opening database: %s", dbFilePath)
		}
		defer db.Close()

		slog.Debug("creating db schema", "path", dbFilePath)
		b, err := f.ReadFile("sql/ddl.sql")
		if err != nil {
			return errors.Wrap(err, "failed to read the schema creation file")
		}
		if _, err := db.Exec(string(b)); err != nil {
			return errors.Wrapf(err, "failed to create database schema in: %s", dbFilePath)
		}
		slog.Debug("db schema created")
	}

	return nil
}

// GetDB opens the SQLite database at the given path.
func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", path)
	}
	return conn, nil
}
