package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const ModuleName = "hockeystats-backend"

// StatePrefix marks paths that live under dev/.state of the workspace.
const StatePrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module +([\w\-_./]+)\s*$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == ModuleName
}

// GetWorkspaceRoot walks up from the working directory to the directory
// holding this module's go.mod.
func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}

	for {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		parent := filepath.Dir(currentdir)
		if parent == currentdir {
			return "", os.ErrNotExist
		}
		currentdir = parent
	}
}

func GetStateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state"), nil
}

// ResolvePath returns path untouched unless it starts with StatePrefix, in
// which case the prefix is replaced with the state directory (created if
// missing).
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, StatePrefix) {
		return path, nil
	}

	statedir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(statedir, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimPrefix(path, StatePrefix)
	subpath = strings.TrimLeft(subpath, `/\`)
	return filepath.Join(statedir, subpath), nil
}
