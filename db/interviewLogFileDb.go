package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"interviewcoach/models"
)

const logExtension = ".json"

// FileInterviewLogRepository keeps one pretty-printed JSON document per
// interview in a directory.
type FileInterviewLogRepository struct {
	dir string
}

func NewFileInterviewLogRepository(dir string) (*FileInterviewLogRepository, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileInterviewLogRepository{dir: dir}, nil
}

// Path returns where the log with the given id is written.
func (r *FileInterviewLogRepository) Path(id string) string {
	return filepath.Join(r.dir, id+logExtension)
}

// SaveLog replaces the whole document through a temp file and a rename, so
// readers never see a half-written log.
func (r *FileInterviewLogRepository) SaveLog(id string, log *models.InterviewLog) error {
	if err := validateID(id); err != nil {
		return err
	}

	data, err := encodeLog(log)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp log file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write interview log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close interview log: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.Path(id)); err != nil {
		return fmt.Errorf("failed to save interview log: %w", err)
	}

	return nil
}

func (r *FileInterviewLogRepository) GetLog(id string) (*models.InterviewLog, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, id)
		}
		return nil, fmt.Errorf("failed to read interview log: %w", err)
	}

	return decodeLog(data)
}

func (r *FileInterviewLogRepository) ListLogs() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview logs: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), logExtension))
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *FileInterviewLogRepository) Close() error {
	return nil
}

func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid interview log id %q", id)
	}
	return nil
}
