package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "jetcargo-backend/dev/env"
	"jetcargo-backend/lib/sqliteutil"
	"jetcargo-backend/services/relay/db"
)

const relayConfigTemplate = "cmd/relay/config.example.json5"

func CreateRelayDB() error {
	path, err := devenv.ResolvePath(filepath.Join(devenv.StatePrefix, "relay.db"))
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	database, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		return err
	}
	return database.Close()
}

// CreateRelayConfig copies the example config into the state directory,
// an existing config is left alone.
func CreateRelayConfig() error {
	path, err := devenv.ResolvePath(filepath.Join(devenv.StatePrefix, "config.json5"))
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("config already created at", path)
		return nil
	}

	template, err := os.ReadFile(relayConfigTemplate)
	if err != nil {
		return err
	}
	fmt.Println("creating config at", path)
	return os.WriteFile(path, template, 0600)
}

func PrintUsage() {
	slog.Info("fill in the crm credentials (or put them in dev/.state/config.local.json5), then run `go run ./cmd/relay -config dev/.state/config.json5 -v`")
}
