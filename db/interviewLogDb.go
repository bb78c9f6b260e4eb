package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"interviewcoach/config"
	"interviewcoach/models"

	_ "github.com/lib/pq"
)

var ErrLogNotFound = errors.New("interview log not found")

type InterviewLogRepository interface {
	SaveLog(id string, log *models.InterviewLog) error
	GetLog(id string) (*models.InterviewLog, error)
	ListLogs() ([]string, error)
	Close() error
}

// NewInterviewLogRepository opens the store selected by the storage driver.
func NewInterviewLogRepository(cfg config.StorageConfig) (InterviewLogRepository, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		return NewFileInterviewLogRepository(cfg.Dir)
	case config.StorageSQLite:
		return NewSQLiteInterviewLogRepository(cfg.SQLitePath)
	case config.StoragePostgres:
		return NewPostgresInterviewLogRepository(cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

type PostgresInterviewLogRepository struct {
	db *sql.DB
}

func NewPostgresInterviewLogRepository(databaseURL string) (*PostgresInterviewLogRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS interview_logs (
			id TEXT PRIMARY KEY,
			participant_name TEXT NOT NULL,
			log JSONB NOT NULL,
			createdAt TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updatedAt TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create interview_logs table: %w", err)
	}

	return &PostgresInterviewLogRepository{db: db}, nil
}

func (r *PostgresInterviewLogRepository) SaveLog(id string, log *models.InterviewLog) error {
	logJSON, err := encodeLog(log)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO interview_logs (id, participant_name, log)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET participant_name = EXCLUDED.participant_name, log = EXCLUDED.log, updatedAt = NOW()`

	if _, err := r.db.Exec(query, id, log.ParticipantName, logJSON); err != nil {
		return fmt.Errorf("failed to save interview log: %w", err)
	}

	return nil
}

func (r *PostgresInterviewLogRepository) GetLog(id string) (*models.InterviewLog, error) {
	query := `SELECT log FROM interview_logs WHERE id = $1`

	var logJSON []byte
	err := r.db.QueryRow(query, id).Scan(&logJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, id)
		}
		return nil, fmt.Errorf("failed to get interview log: %w", err)
	}

	return decodeLog(logJSON)
}

func (r *PostgresInterviewLogRepository) ListLogs() ([]string, error) {
	query := `SELECT id FROM interview_logs ORDER BY createdAt, id`
	return queryIDs(r.db, query)
}

func (r *PostgresInterviewLogRepository) Close() error {
	return r.db.Close()
}

func queryIDs(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview logs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan interview log id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interview logs: %w", err)
	}

	return ids, nil
}

func encodeLog(log *models.InterviewLog) ([]byte, error) {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interview log: %w", err)
	}
	return data, nil
}

func decodeLog(data []byte) (*models.InterviewLog, error) {
	log := &models.InterviewLog{}
	if err := json.Unmarshal(data, log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview log: %w", err)
	}
	return log, nil
}
