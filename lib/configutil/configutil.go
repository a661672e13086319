package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// readLayers decodes <name>.<ext> and then <name>.local.<ext> into out.
// Each file only overwrites the keys it sets, so explicit zero values are
// kept while missing keys leave out untouched.
func readLayers[T any](name string, out *T) (bool, error) {
	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	foundDefault, err := readInto(name, out)
	if err != nil {
		return false, err
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	foundLocal, err := readInto(localFilepath, out)
	if err != nil {
		return false, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}
	return foundDefault || foundLocal, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// os.ErrNotExist is returned if neither exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readLayers(name, &out)
	if err != nil {
		return out, err
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadOptional is ReadConfig layered on top of the value returned by
// defaults, a missing file results in the defaults. defaults is called
// for every read so decoding never writes into a shared slice or map.
func ReadOptional[T any](name string, defaults func() T) (T, error) {
	out := defaults()
	_, err := readLayers(name, &out)
	if err != nil {
		return defaults(), err
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it goes up the filesystem from the
// working directory until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}
