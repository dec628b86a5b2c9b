// Package lockfile provides a scoped exclusive lock backed by a lock file
// on disk. The lock is advisory lock-by-existence: acquiring creates the
// file exclusively and writes holder metadata as JSON, so a human (or a
// log line) can see who holds a stale lock.
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Info is the holder metadata written into the lock file.
type Info struct {
	PID       int       `json:"pid"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	CreatedTS float64   `json:"created_ts"`
}

// LockedError reports that the lock is already held. Holder carries the
// existing file's metadata when it could be read.
type LockedError struct {
	Path   string
	Holder *Info
}

// Error implements the error interface.
func (e *LockedError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("lock file %s already held by pid %d since %s",
			e.Path, e.Holder.PID, e.Holder.CreatedAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("lock file %s already exists", e.Path)
}

// IsLocked reports whether err is a lock conflict.
func IsLocked(err error) bool {
	var le *LockedError
	return errors.As(err, &le)
}

// Guard acquires and releases one lock file.
type Guard struct {
	Path    string
	Comment string
}

// New creates a guard for the given lock file path.
func New(path, comment string) *Guard {
	return &Guard{Path: path, Comment: comment}
}

// Acquire creates the lock file exclusively and writes holder metadata.
// Returns a LockedError when the file already exists.
func (g *Guard) Acquire() error {
	f, err := os.OpenFile(g.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return &LockedError{Path: g.Path, Holder: readInfo(g.Path)}
		}
		return fmt.Errorf("creating lock file %s: %w", g.Path, err)
	}

	now := time.Now()
	info := Info{
		PID:       os.Getpid(),
		Comment:   g.Comment,
		CreatedAt: now,
		CreatedTS: float64(now.UnixNano()) / float64(time.Second),
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		f.Close()
		os.Remove(g.Path)
		return fmt.Errorf("writing lock file %s: %w", g.Path, err)
	}
	return f.Close()
}

// Release removes the lock file. Releasing an unheld lock is not an error.
func (g *Guard) Release() error {
	err := os.Remove(g.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file %s: %w", g.Path, err)
	}
	return nil
}

// Do runs fn while holding the lock. The lock is released on every exit
// path: normal return, fn error, and panic.
func (g *Guard) Do(fn func() error) error {
	if err := g.Acquire(); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}

// readInfo reads holder metadata best effort; a missing or malformed lock
// file yields nil.
func readInfo(path string) *Info {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil
	}
	return &info
}
