package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "sizewise-"
	fileSuffix = ".db"
)

// Info describes one backup file on disk.
type Info struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

// Manager copies the SQLite data file into a backup directory and
// restores from it. All methods are best-effort file I/O; failures are
// reported to the caller, which logs and moves on.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	logger *slog.Logger
}

func NewManager(dbPath, dir string, keep int, logger *slog.Logger) *Manager {
	if keep <= 0 {
		keep = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dbPath: dbPath, dir: dir, keep: keep, logger: logger}
}

// Run takes one timestamped backup and prunes old ones down to the
// retention count. Returns the backup file name.
func (m *Manager) Run() (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := filePrefix + time.Now().UTC().Format("20060102-150405") + fileSuffix
	dst := filepath.Join(m.dir, name)
	if err := copyFile(m.dbPath, dst); err != nil {
		return "", fmt.Errorf("backup %s: %w", m.dbPath, err)
	}

	if err := m.prune(); err != nil {
		// a failed prune does not invalidate the backup just taken
		m.logger.Warn("backup prune failed", "err", err)
	}
	return name, nil
}

// List returns existing backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var out []Info
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{Name: e.Name(), Size: fi.Size(), Created: fi.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Restore copies the named backup back over the data file. The name
// must be a bare backup file name produced by Run.
func (m *Manager) Restore(name string) error {
	if !isBackupName(name) || filepath.Base(name) != name {
		return fmt.Errorf("invalid backup name %q", name)
	}
	src := filepath.Join(m.dir, name)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	if err := copyFile(src, m.dbPath); err != nil {
		return fmt.Errorf("restore %s: %w", name, err)
	}
	return nil
}

func (m *Manager) prune() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(filepath.Join(m.dir, backups[i].Name)); err != nil {
			return err
		}
	}
	return nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Sync()
}
