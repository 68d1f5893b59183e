package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"screening-sync/internal/database"
	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/domain/job"
)

var ErrSnapshotNotFound = errors.New("workspace snapshot not found")

// WorkspaceSnapshot is the durable form of one session's workspace.
type WorkspaceSnapshot struct {
	SessionID     string                  `json:"-"`
	StoreVersion  uint64                  `json:"store_version"`
	Candidates    []candidate.Candidate   `json:"candidates"`
	Tombstones    []string                `json:"tombstones"`
	Jobs          []job.Job               `json:"jobs"`
	JobTombstones []string                `json:"job_tombstones"`
	ActiveJobID   string                  `json:"active_job_id"`
	Assignments   []assignment.Assignment `json:"assignments"`
	Interviews    []interview.Interview   `json:"interviews"`
	UpdatedAt     time.Time               `json:"-"`
}

type WorkspaceRepository interface {
	Save(ctx context.Context, snap WorkspaceSnapshot) error
	Load(ctx context.Context, sessionID string) (WorkspaceSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type PostgresWorkspaceRepository struct {
	db database.DB
}

func NewPostgresWorkspaceRepository(db database.DB) *PostgresWorkspaceRepository {
	return &PostgresWorkspaceRepository{db: db}
}

func (r *PostgresWorkspaceRepository) Save(ctx context.Context, snap WorkspaceSnapshot) error {
	if snap.SessionID == "" {
		return errors.New("empty session id")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO workspace_snapshots (session_id, payload, store_version, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (session_id) DO UPDATE
		 SET payload = EXCLUDED.payload, store_version = EXCLUDED.store_version, updated_at = now()`,
		snap.SessionID, payload, int64(snap.StoreVersion),
	)
	return err
}

func (r *PostgresWorkspaceRepository) Load(ctx context.Context, sessionID string) (WorkspaceSnapshot, error) {
	var (
		payload   []byte
		updatedAt time.Time
	)
	row := r.db.QueryRow(ctx,
		`SELECT payload, updated_at FROM workspace_snapshots WHERE session_id = $1`,
		sessionID,
	)
	if err := row.Scan(&payload, &updatedAt); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return WorkspaceSnapshot{}, ErrSnapshotNotFound
		}
		return WorkspaceSnapshot{}, err
	}

	var snap WorkspaceSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return WorkspaceSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.SessionID = sessionID
	snap.UpdatedAt = updatedAt
	return snap, nil
}

func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workspace_snapshots WHERE session_id = $1`, sessionID)
	return err
}

var _ WorkspaceRepository = (*PostgresWorkspaceRepository)(nil)
