package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config is the "database" section of service configs. File is a path to a
// sqlite file, ":memory:", or a libsql:// / http(s):// url of a remote
// database.
type Config struct {
	File string `json:"file"`
}

func remote(location string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(location, prefix) {
			return true
		}
	}
	return false
}

func openLocal(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer, with more than one connection
	// writes fail with SQLITE_BUSY instead of waiting
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// OpenDB opens the database at location and applies schema to it, the
// schema is expected to be idempotent.
func OpenDB(schema, location string) (*sql.DB, error) {
	if location == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	var db *sql.DB
	var err error
	if remote(location) {
		db, err = sql.Open("libsql", location)
	} else {
		db, err = openLocal(location)
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (c Config) OpenDB(schema string) (*sql.DB, error) {
	return OpenDB(schema, c.File)
}
