package restyutil

import (
	devenv "hockeystats-backend/dev/env"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemOutput writes every message to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and prepares it for new messages, dir may
// be prefixed with <dev_state>.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// MemoryOutput keeps messages in memory.
type MemoryOutput struct {
	lock     *sync.Mutex
	messages map[string]string
}

func NewMemoryOutput() MemoryOutput {
	return MemoryOutput{
		lock:     &sync.Mutex{},
		messages: map[string]string{},
	}
}

func (o MemoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func (o MemoryOutput) Get(id string) (string, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	contents, ok := o.messages[id]
	return contents, ok
}
