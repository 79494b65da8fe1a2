package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type thesisRepo struct {
	db *sqlx.DB
}

// NewThesisRepo creates a new PostgreSQL-backed ThesisRepository.
func NewThesisRepo(db *sqlx.DB) port.ThesisRepository {
	return &thesisRepo{db: db}
}

type thesisRow struct {
	ID          uuid.UUID       `db:"id"`
	GroupID     uuid.UUID       `db:"group_id"`
	TopicID     string          `db:"topic_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Keywords    json.RawMessage `db:"keywords"`
	CreatedBy   uuid.UUID       `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (row *thesisRow) toDomain() (*domain.Thesis, error) {
	t := &domain.Thesis{
		ID:          row.ID,
		GroupID:     row.GroupID,
		TopicID:     row.TopicID,
		Title:       row.Title,
		Description: row.Description,
		Keywords:    []string{},
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Keywords) > 0 {
		if err := json.Unmarshal(row.Keywords, &t.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshaling keywords: %w", err)
		}
	}
	return t, nil
}

func (r *thesisRepo) Create(ctx context.Context, thesis *domain.Thesis) error {
	now := time.Now().UTC()
	thesis.CreatedAt = now
	thesis.UpdatedAt = now

	if thesis.Keywords == nil {
		thesis.Keywords = []string{}
	}
	keywords, err := json.Marshal(thesis.Keywords)
	if err != nil {
		return fmt.Errorf("thesisRepo.Create: marshaling keywords: %w", err)
	}

	query := `INSERT INTO theses (id, group_id, topic_id, title, description, keywords, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		thesis.ID, thesis.GroupID, thesis.TopicID, thesis.Title, thesis.Description,
		keywords, thesis.CreatedBy, thesis.CreatedAt, thesis.UpdatedAt)
	if err != nil {
		// theses.group_id is unique: the table itself enforces one
		// thesis per group even when two promotions race.
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrThesisChosen
		}
		return fmt.Errorf("thesisRepo.Create: %w", err)
	}
	return nil
}

func (r *thesisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error) {
	var row thesisRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM theses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrThesisNotFound
		}
		return nil, fmt.Errorf("thesisRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *thesisRepo) GetByGroup(ctx context.Context, groupID uuid.UUID) (*domain.Thesis, error) {
	var row thesisRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM theses WHERE group_id = $1", groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrThesisNotFound
		}
		return nil, fmt.Errorf("thesisRepo.GetByGroup: %w", err)
	}
	return row.toDomain()
}

func (r *thesisRepo) Update(ctx context.Context, thesis *domain.Thesis) error {
	thesis.UpdatedAt = time.Now().UTC()

	if thesis.Keywords == nil {
		thesis.Keywords = []string{}
	}
	keywords, err := json.Marshal(thesis.Keywords)
	if err != nil {
		return fmt.Errorf("thesisRepo.Update: marshaling keywords: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE theses SET title = $1, description = $2, keywords = $3, updated_at = $4 WHERE id = $5`,
		thesis.Title, thesis.Description, keywords, thesis.UpdatedAt, thesis.ID)
	if err != nil {
		return fmt.Errorf("thesisRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrThesisNotFound
	}
	return nil
}
