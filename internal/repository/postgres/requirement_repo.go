package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type requirementRepo struct {
	db *sqlx.DB
}

// NewRequirementRepo creates a new PostgreSQL-backed
// TerminalRequirementRepository.
func NewRequirementRepo(db *sqlx.DB) port.TerminalRequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) Create(ctx context.Context, req *domain.TerminalRequirement) error {
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `INSERT INTO terminal_requirements (id, thesis_id, name, stage, status, file_ref,
		reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.ThesisID, req.Name, req.Stage, req.Status, req.FileRef,
		req.ReviewedBy, req.ReviewedAt, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("requirementRepo.Create: %w", err)
	}
	return nil
}

func (r *requirementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TerminalRequirement, error) {
	var req domain.TerminalRequirement
	err := r.db.GetContext(ctx, &req, "SELECT * FROM terminal_requirements WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequirementNotFound
		}
		return nil, fmt.Errorf("requirementRepo.GetByID: %w", err)
	}
	return &req, nil
}

func (r *requirementRepo) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.TerminalRequirement, error) {
	var reqs []domain.TerminalRequirement
	err := r.db.SelectContext(ctx, &reqs,
		"SELECT * FROM terminal_requirements WHERE thesis_id = $1 ORDER BY created_at ASC", thesisID)
	if err != nil {
		return nil, fmt.Errorf("requirementRepo.ListByThesis: %w", err)
	}
	return reqs, nil
}

func (r *requirementRepo) Update(ctx context.Context, req *domain.TerminalRequirement) error {
	req.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE terminal_requirements SET name = $1, stage = $2, status = $3, file_ref = $4,
		 reviewed_by = $5, reviewed_at = $6, updated_at = $7 WHERE id = $8`,
		req.Name, req.Stage, req.Status, req.FileRef,
		req.ReviewedBy, req.ReviewedAt, req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("requirementRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRequirementNotFound
	}
	return nil
}

func (r *requirementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM terminal_requirements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("requirementRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRequirementNotFound
	}
	return nil
}
