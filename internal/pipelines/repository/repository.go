// Package repository provides data access for pipelines and their ordered
// stages.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("pipeline not found")

type Pipeline struct {
	ID        uuid.UUID
	Name      string
	Stages    []Stage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Stage struct {
	ID       uuid.UUID
	Name     string
	Status   string
	Position int
	IsFinal  bool
}

type StageParams struct {
	Name    string
	Status  string
	IsFinal bool
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the pipeline and its stages in one transaction. Stage
// position follows slice order.
func (r *Repository) Create(ctx context.Context, name string, stages []StageParams) (Pipeline, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Pipeline{}, err
	}
	defer tx.Rollback(ctx)

	var p Pipeline
	err = tx.QueryRow(ctx, `
		INSERT INTO pipelines (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Pipeline{}, err
	}

	p.Stages, err = insertStages(ctx, tx, p.ID, stages)
	if err != nil {
		return Pipeline{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Pipeline{}, err
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Pipeline, error) {
	var p Pipeline
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM pipelines WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pipeline{}, ErrNotFound
	}
	if err != nil {
		return Pipeline{}, err
	}

	p.Stages, err = r.loadStages(ctx, p.ID)
	if err != nil {
		return Pipeline{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]Pipeline, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at, updated_at FROM pipelines ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pipelines := make([]Pipeline, 0)
	for rows.Next() {
		var p Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range pipelines {
		stages, err := r.loadStages(ctx, pipelines[i].ID)
		if err != nil {
			return nil, err
		}
		pipelines[i].Stages = stages
	}
	return pipelines, nil
}

// Update renames the pipeline and, when stages is non-nil, replaces the full
// stage list. Leads keep their stage_id; a stale stage_id simply no longer
// matches and the lead falls back to tag-based stage resolution.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name *string, stages []StageParams) (Pipeline, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Pipeline{}, err
	}
	defer tx.Rollback(ctx)

	var p Pipeline
	if name != nil {
		err = tx.QueryRow(ctx, `
			UPDATE pipelines SET name = $2, updated_at = now()
			WHERE id = $1
			RETURNING id, name, created_at, updated_at
		`, id, *name).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT id, name, created_at, updated_at FROM pipelines WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Pipeline{}, ErrNotFound
	}
	if err != nil {
		return Pipeline{}, err
	}

	if stages != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM pipeline_stages WHERE pipeline_id = $1`, id); err != nil {
			return Pipeline{}, err
		}
		p.Stages, err = insertStages(ctx, tx, id, stages)
		if err != nil {
			return Pipeline{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Pipeline{}, err
	}

	if stages == nil {
		p.Stages, err = r.loadStages(ctx, id)
		if err != nil {
			return Pipeline{}, err
		}
	}
	return p, nil
}

// Delete removes the pipeline; assigned leads are detached and fall back to
// the default stage model.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET pipeline_id = NULL, stage_id = NULL WHERE pipeline_id = $1
	`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pipeline_stages WHERE pipeline_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pipelines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *Repository) loadStages(ctx context.Context, pipelineID uuid.UUID) ([]Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, status, position, is_final
		FROM pipeline_stages
		WHERE pipeline_id = $1
		ORDER BY position ASC
	`, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]Stage, 0)
	for rows.Next() {
		var s Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.Position, &s.IsFinal); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func insertStages(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID, stages []StageParams) ([]Stage, error) {
	out := make([]Stage, 0, len(stages))
	for i, params := range stages {
		var s Stage
		err := tx.QueryRow(ctx, `
			INSERT INTO pipeline_stages (pipeline_id, name, status, position, is_final)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, name, status, position, is_final
		`, pipelineID, params.Name, params.Status, i, params.IsFinal).Scan(
			&s.ID, &s.Name, &s.Status, &s.Position, &s.IsFinal,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
