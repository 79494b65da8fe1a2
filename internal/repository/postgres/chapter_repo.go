package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type chapterRepo struct {
	db *sqlx.DB
}

// NewChapterRepo creates a new PostgreSQL-backed ChapterRepository.
func NewChapterRepo(db *sqlx.DB) port.ChapterRepository {
	return &chapterRepo{db: db}
}

type chapterRow struct {
	ID         uuid.UUID         `db:"id"`
	ThesisID   uuid.UUID         `db:"thesis_id"`
	Number     int               `db:"number"`
	Title      string            `db:"title"`
	Stages     json.RawMessage   `db:"stages"`
	Status     domain.WorkStatus `db:"status"`
	FileRef    string            `db:"file_ref"`
	ReviewedBy *uuid.UUID        `db:"reviewed_by"`
	ReviewedAt *time.Time        `db:"reviewed_at"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

func (row *chapterRow) toDomain() (*domain.Chapter, error) {
	c := &domain.Chapter{
		ID:         row.ID,
		ThesisID:   row.ThesisID,
		Number:     row.Number,
		Title:      row.Title,
		Status:     row.Status,
		FileRef:    row.FileRef,
		ReviewedBy: row.ReviewedBy,
		ReviewedAt: row.ReviewedAt,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Stages) > 0 {
		if err := json.Unmarshal(row.Stages, &c.Stages); err != nil {
			return nil, fmt.Errorf("unmarshaling stages: %w", err)
		}
	}
	return c, nil
}

func marshalStages(stages []domain.Stage) ([]byte, error) {
	if stages == nil {
		stages = []domain.Stage{}
	}
	return json.Marshal(stages)
}

func (r *chapterRepo) Create(ctx context.Context, chapter *domain.Chapter) error {
	now := time.Now().UTC()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now

	stages, err := marshalStages(chapter.Stages)
	if err != nil {
		return fmt.Errorf("chapterRepo.Create: marshaling stages: %w", err)
	}

	query := `INSERT INTO chapters (id, thesis_id, number, title, stages, status, file_ref,
		reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		chapter.ID, chapter.ThesisID, chapter.Number, chapter.Title, stages,
		chapter.Status, chapter.FileRef, chapter.ReviewedBy, chapter.ReviewedAt,
		chapter.CreatedAt, chapter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("chapterRepo.Create: %w", err)
	}
	return nil
}

func (r *chapterRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chapter, error) {
	var row chapterRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM chapters WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChapterNotFound
		}
		return nil, fmt.Errorf("chapterRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *chapterRepo) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.Chapter, error) {
	var rows []chapterRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM chapters WHERE thesis_id = $1 ORDER BY number ASC", thesisID)
	if err != nil {
		return nil, fmt.Errorf("chapterRepo.ListByThesis: %w", err)
	}
	chapters := make([]domain.Chapter, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("chapterRepo.ListByThesis: %w", err)
		}
		chapters = append(chapters, *c)
	}
	return chapters, nil
}

func (r *chapterRepo) Update(ctx context.Context, chapter *domain.Chapter) error {
	chapter.UpdatedAt = time.Now().UTC()

	stages, err := marshalStages(chapter.Stages)
	if err != nil {
		return fmt.Errorf("chapterRepo.Update: marshaling stages: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE chapters SET number = $1, title = $2, stages = $3, status = $4, file_ref = $5,
		 reviewed_by = $6, reviewed_at = $7, updated_at = $8 WHERE id = $9`,
		chapter.Number, chapter.Title, stages, chapter.Status, chapter.FileRef,
		chapter.ReviewedBy, chapter.ReviewedAt, chapter.UpdatedAt, chapter.ID)
	if err != nil {
		return fmt.Errorf("chapterRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func (r *chapterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM chapters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("chapterRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}
