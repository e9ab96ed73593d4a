// Package lockfile keeps a single `objectives serve` per data directory so
// that only one process sweeps reminders.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/objectives/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live server holds the lock.
var ErrLocked = errors.New("another objectives server is already running")

// Owner describes the process recorded in a lockfile.
type Owner struct {
	PID     int
	Started time.Time
	Running bool
}

// Lock is a held lockfile.
type Lock struct {
	path string
}

// Path returns the lockfile location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.ServerLockfileName)
}

// Acquire takes the lock in dataDir. A lockfile left behind by a process
// that is gone, or that is not an objectives binary, is replaced.
func Acquire(dataDir string) (*Lock, error) {
	path := Path(dataDir)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			content := fmt.Sprintf("%d|%d", getpidFunc(), time.Now().Unix())
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, err := Inspect(path)
		if err == nil && owner.Running {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, owner.PID)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lockfile.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Inspect reads a lockfile and checks whether its process still runs.
func Inspect(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Owner{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	started, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Owner{}, errors.New("invalid start time in lockfile")
	}

	owner := Owner{PID: pid, Started: time.Unix(started, 0)}
	if pid == getpidFunc() {
		owner.Running = true
		return owner, nil
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return owner, nil
	}
	owner.Running = strings.HasPrefix(process.Executable(), constants.AppName)
	return owner, nil
}
