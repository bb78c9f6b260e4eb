package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"interviewcoach/models"

	_ "modernc.org/sqlite"
)

type SQLiteInterviewLogRepository struct {
	db *sql.DB
}

func NewSQLiteInterviewLogRepository(path string) (*SQLiteInterviewLogRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := `
	PRAGMA journal_mode = WAL;
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interview_logs (
		id TEXT PRIMARY KEY,
		participant_name TEXT NOT NULL,
		log TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create interview_logs table: %w", err)
	}

	return &SQLiteInterviewLogRepository{db: db}, nil
}

func (r *SQLiteInterviewLogRepository) SaveLog(id string, log *models.InterviewLog) error {
	logJSON, err := encodeLog(log)
	if err != nil {
		return err
	}

	now := time.Now().UnixNano()
	query := `
		INSERT INTO interview_logs (id, participant_name, log, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET participant_name = excluded.participant_name, log = excluded.log, updated_at = excluded.updated_at`

	if _, err := r.db.Exec(query, id, log.ParticipantName, string(logJSON), now, now); err != nil {
		return fmt.Errorf("failed to save interview log: %w", err)
	}

	return nil
}

func (r *SQLiteInterviewLogRepository) GetLog(id string) (*models.InterviewLog, error) {
	var logJSON string
	err := r.db.QueryRow(`SELECT log FROM interview_logs WHERE id = ?`, id).Scan(&logJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, id)
		}
		return nil, fmt.Errorf("failed to get interview log: %w", err)
	}

	return decodeLog([]byte(logJSON))
}

func (r *SQLiteInterviewLogRepository) ListLogs() ([]string, error) {
	return queryIDs(r.db, `SELECT id FROM interview_logs ORDER BY created_at, id`)
}

func (r *SQLiteInterviewLogRepository) Close() error {
	return r.db.Close()
}
