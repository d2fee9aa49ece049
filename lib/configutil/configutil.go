package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath is the override file that sits next to path, ex.
// "config.json5" becomes "config.local.json5".
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// readFile decodes path into out, secrets are kept out of the files and
// referenced as ${VAR}. A missing or empty file leaves out untouched and
// returns false.
func readFile[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}

	expanded := os.ExpandEnv(string(contents))
	err = json5.Unmarshal([]byte(expanded), out)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig loads a json5 service config. Values from LocalPath(path) take
// precedence over the ones in path, either file may be missing but not
// both (os.ErrNotExist).
func ReadConfig[T any](path string) (T, error) {
	var out T
	found, err := readFile(path, &out)
	if err != nil {
		return out, err
	}

	local := LocalPath(path)
	var override T
	foundLocal, err := readFile(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("applied local config overrides", "file", local)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively looks for name in the working directory and each of its
// parents, the first directory holding it is read with ReadConfig.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return zero, os.ErrNotExist
		}
		dir = parent
	}
}
