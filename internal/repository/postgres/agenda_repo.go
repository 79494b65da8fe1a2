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

type agendaRepo struct {
	db *sqlx.DB
}

// NewAgendaRepo creates a new PostgreSQL-backed AgendaRepository.
func NewAgendaRepo(db *sqlx.DB) port.AgendaRepository {
	return &agendaRepo{db: db}
}

type agendaTreeRow struct {
	ID         uuid.UUID         `db:"id"`
	AgendaType domain.AgendaType `db:"agenda_type"`
	Department string            `db:"department"`
	Roots      json.RawMessage   `db:"roots"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

func (row *agendaTreeRow) toDomain() (*domain.AgendaTree, error) {
	t := &domain.AgendaTree{
		ID:         row.ID,
		AgendaType: row.AgendaType,
		Department: row.Department,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Roots) > 0 {
		if err := json.Unmarshal(row.Roots, &t.Roots); err != nil {
			return nil, fmt.Errorf("unmarshaling roots: %w", err)
		}
	}
	return t, nil
}

// Upsert replaces a tree's contents keyed by (agenda_type, department),
// so re-running the seed refreshes trees in place.
func (r *agendaRepo) Upsert(ctx context.Context, tree *domain.AgendaTree) error {
	tree.UpdatedAt = time.Now().UTC()

	if tree.Roots == nil {
		tree.Roots = []domain.AgendaNode{}
	}
	roots, err := json.Marshal(tree.Roots)
	if err != nil {
		return fmt.Errorf("agendaRepo.Upsert: marshaling roots: %w", err)
	}

	query := `INSERT INTO agenda_trees (id, agenda_type, department, roots, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (agenda_type, department)
		DO UPDATE SET roots = EXCLUDED.roots, updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		tree.ID, tree.AgendaType, tree.Department, roots, tree.UpdatedAt)
	if err != nil {
		return fmt.Errorf("agendaRepo.Upsert: %w", err)
	}
	return nil
}

func (r *agendaRepo) Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error) {
	var row agendaTreeRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM agenda_trees WHERE agenda_type = $1 AND department = $2",
		agendaType, department)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAgendaTreeNotFound
		}
		return nil, fmt.Errorf("agendaRepo.Get: %w", err)
	}
	return row.toDomain()
}

func (r *agendaRepo) List(ctx context.Context) ([]domain.AgendaTree, error) {
	var rows []agendaTreeRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM agenda_trees ORDER BY agenda_type ASC, department ASC")
	if err != nil {
		return nil, fmt.Errorf("agendaRepo.List: %w", err)
	}
	trees := make([]domain.AgendaTree, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("agendaRepo.List: %w", err)
		}
		trees = append(trees, *t)
	}
	return trees, nil
}
