package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	_ "github.com/lib/pq"

	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS sourcing_jobs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	raw_text     TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT 'text',
	record       JSONB,
	prompts      JSONB,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
	job_id      TEXT NOT NULL REFERENCES sourcing_jobs(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	match_score INT NOT NULL DEFAULT 0,
	profile     JSONB NOT NULL,
	PRIMARY KEY (job_id, position)
);

CREATE TABLE IF NOT EXISTS saved_candidates (
	job_id      TEXT NOT NULL REFERENCES sourcing_jobs(id) ON DELETE CASCADE,
	profile_url TEXT NOT NULL,
	profile     JSONB NOT NULL,
	saved_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (job_id, profile_url)
);

CREATE INDEX IF NOT EXISTS idx_sourcing_jobs_status_created
	ON sourcing_jobs (status, created_at);
`

// PostgresStore persists jobs and candidates in PostgreSQL. Structured
// records, prompts and profiles are stored as JSONB documents; the
// relational columns carry only what queries filter or order by.
type PostgresStore struct {
	db     *sql.DB
	logger *errors.Logger
}

// NewPostgresStore opens a connection pool against cfg.DSN and applies the
// schema migration.
func NewPostgresStore(ctx context.Context, cfg *config.StoreConfig, logger *errors.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to open postgres connection", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to reach postgres", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to apply store schema", err)
	}

	logger.Info("Postgres store ready",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns)

	return &PostgresStore{db: db, logger: logger}, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *types.SourcingJob) error {
	record, err := marshalNullable(job.Record)
	if err != nil {
		return err
	}
	prompts, err := marshalNullable(job.Prompts)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sourcing_jobs (id, status, raw_text, content_type, record, prompts, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.Status, job.RawText, job.ContentType, record, prompts, job.Error, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to insert job", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*types.SourcingJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, raw_text, content_type, record, prompts, error, created_at, updated_at
		FROM sourcing_jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (s *PostgresStore) ListRecentJobs(ctx context.Context, limit int) ([]types.SourcingJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, raw_text, content_type, record, prompts, error, created_at, updated_at
		FROM sourcing_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to list jobs", err)
	}
	defer rows.Close()

	jobs := []types.SourcingJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to iterate jobs", err)
	}
	return jobs, nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id string, status types.JobStatus, errMsg string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sourcing_jobs SET status = $2, error = $3, updated_at = $4 WHERE id = $1`,
		id, status, errMsg, time.Now().UTC())
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to update job status", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) UpdateJobResults(ctx context.Context, id string, record *types.StructuredJobRecord, prompts *types.PromptPair) error {
	recordJSON, err := marshalNullable(record)
	if err != nil {
		return err
	}
	promptsJSON, err := marshalNullable(prompts)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sourcing_jobs SET record = $2, prompts = $3, updated_at = $4 WHERE id = $1`,
		id, recordJSON, promptsJSON, time.Now().UTC())
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to update job results", err)
	}
	return requireRow(result)
}

// ClaimQueuedJob relies on SKIP LOCKED so concurrent workers never pick the
// same job.
func (s *PostgresStore) ClaimQueuedJob(ctx context.Context) (*types.SourcingJob, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE sourcing_jobs SET status = $1, updated_at = $2
		WHERE id = (
			SELECT id FROM sourcing_jobs
			WHERE status = $3
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, status, raw_text, content_type, record, prompts, error, created_at, updated_at`,
		types.JobStatusProcessing, time.Now().UTC(), types.JobStatusQueued)

	job, err := scanJob(row)
	if err != nil {
		if stderrors.Is(err, ErrJobNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

func (s *PostgresStore) SaveCandidates(ctx context.Context, jobID string, candidates []types.CandidateProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE job_id = $1`, jobID); err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to clear candidates", err)
	}

	for i, candidate := range candidates {
		profile, err := json.Marshal(candidate)
		if err != nil {
			return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to encode candidate", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (job_id, position, match_score, profile)
			VALUES ($1, $2, $3, $4)`,
			jobID, i, candidate.MatchScore, profile); err != nil {
			return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to insert candidate", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to commit candidates", err)
	}
	return nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, jobID string) ([]types.CandidateProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile FROM candidates
		WHERE job_id = $1 ORDER BY match_score DESC, position`, jobID)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to list candidates", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (s *PostgresStore) SaveCandidate(ctx context.Context, jobID string, candidate types.CandidateProfile) error {
	profile, err := json.Marshal(candidate)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to encode candidate", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_candidates (job_id, profile_url, profile, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_id, profile_url)
		DO UPDATE SET profile = EXCLUDED.profile, saved_at = EXCLUDED.saved_at`,
		jobID, types.StrVal(candidate.ProfileURL), profile, time.Now().UTC())
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to save candidate", err)
	}
	return nil
}

func (s *PostgresStore) ListSavedCandidates(ctx context.Context, jobID string) ([]types.CandidateProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile FROM saved_candidates
		WHERE job_id = $1 ORDER BY saved_at DESC`, jobID)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to list saved candidates", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (s *PostgresStore) DeleteSavedCandidate(ctx context.Context, jobID, profileURL string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM saved_candidates WHERE job_id = $1 AND profile_url = $2`,
		jobID, profileURL)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to delete saved candidate", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*types.SourcingJob, error) {
	var (
		job     types.SourcingJob
		record  []byte
		prompts []byte
	)
	err := row.Scan(&job.ID, &job.Status, &job.RawText, &job.ContentType,
		&record, &prompts, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to scan job", err)
	}

	if len(record) > 0 {
		job.Record = &types.StructuredJobRecord{}
		if err := json.Unmarshal(record, job.Record); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to decode job record", err)
		}
	}
	if len(prompts) > 0 {
		job.Prompts = &types.PromptPair{}
		if err := json.Unmarshal(prompts, job.Prompts); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to decode job prompts", err)
		}
	}
	return &job, nil
}

func scanProfiles(rows *sql.Rows) ([]types.CandidateProfile, error) {
	profiles := []types.CandidateProfile{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to scan candidate", err)
		}
		var profile types.CandidateProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to decode candidate", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to iterate candidates", err)
	}
	return profiles, nil
}

func marshalNullable(v any) ([]byte, error) {
	switch value := v.(type) {
	case *types.StructuredJobRecord:
		if value == nil {
			return nil, nil
		}
	case *types.PromptPair:
		if value == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to encode job payload", err)
	}
	return data, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to read affected rows", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}
