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

type proposalSetRepo struct {
	db *sqlx.DB
}

// NewProposalSetRepo creates a new PostgreSQL-backed
// ProposalSetRepository. Topics and review history live in JSONB
// columns and are written whole with the rest of the row.
func NewProposalSetRepo(db *sqlx.DB) port.ProposalSetRepository {
	return &proposalSetRepo{db: db}
}

type proposalSetRow struct {
	ID                uuid.UUID       `db:"id"`
	GroupID           uuid.UUID       `db:"group_id"`
	SetNumber         int             `db:"set_number"`
	AwaitingModerator bool            `db:"awaiting_moderator"`
	AwaitingHead      bool            `db:"awaiting_head"`
	Topics            json.RawMessage `db:"topics"`
	Reviews           json.RawMessage `db:"reviews"`
	CreatedBy         uuid.UUID       `db:"created_by"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (row *proposalSetRow) toDomain() (*domain.ProposalSet, error) {
	set := &domain.ProposalSet{
		ID:                row.ID,
		GroupID:           row.GroupID,
		SetNumber:         row.SetNumber,
		AwaitingModerator: row.AwaitingModerator,
		AwaitingHead:      row.AwaitingHead,
		Topics:            make(map[string]*domain.TopicProposal),
		CreatedBy:         row.CreatedBy,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if len(row.Topics) > 0 {
		if err := json.Unmarshal(row.Topics, &set.Topics); err != nil {
			return nil, fmt.Errorf("unmarshaling topics: %w", err)
		}
	}
	if len(row.Reviews) > 0 {
		if err := json.Unmarshal(row.Reviews, &set.Reviews); err != nil {
			return nil, fmt.Errorf("unmarshaling reviews: %w", err)
		}
	}
	return set, nil
}

func setPayloads(set *domain.ProposalSet) (topics, reviews []byte, err error) {
	if set.Topics == nil {
		set.Topics = make(map[string]*domain.TopicProposal)
	}
	if set.Reviews == nil {
		set.Reviews = []domain.ReviewRecord{}
	}
	topics, err = json.Marshal(set.Topics)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling topics: %w", err)
	}
	reviews, err = json.Marshal(set.Reviews)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling reviews: %w", err)
	}
	return topics, reviews, nil
}

func (r *proposalSetRepo) Create(ctx context.Context, set *domain.ProposalSet) error {
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	topics, reviews, err := setPayloads(set)
	if err != nil {
		return fmt.Errorf("proposalSetRepo.Create: %w", err)
	}

	query := `INSERT INTO proposal_sets (id, group_id, set_number, awaiting_moderator, awaiting_head,
		topics, reviews, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		set.ID, set.GroupID, set.SetNumber, set.AwaitingModerator, set.AwaitingHead,
		topics, reviews, set.CreatedBy, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("proposalSetRepo.Create: %w", err)
	}
	return nil
}

func (r *proposalSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalSet, error) {
	var row proposalSetRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM proposal_sets WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSetNotFound
		}
		return nil, fmt.Errorf("proposalSetRepo.GetByID: %w", err)
	}
	set, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("proposalSetRepo.GetByID: %w", err)
	}
	return set, nil
}

func (r *proposalSetRepo) GetLatestByGroup(ctx context.Context, groupID uuid.UUID) (*domain.ProposalSet, error) {
	var row proposalSetRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM proposal_sets WHERE group_id = $1 ORDER BY set_number DESC LIMIT 1", groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSetNotFound
		}
		return nil, fmt.Errorf("proposalSetRepo.GetLatestByGroup: %w", err)
	}
	set, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("proposalSetRepo.GetLatestByGroup: %w", err)
	}
	return set, nil
}

func (r *proposalSetRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProposalSet, error) {
	var rows []proposalSetRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM proposal_sets WHERE group_id = $1 ORDER BY set_number ASC", groupID)
	if err != nil {
		return nil, fmt.Errorf("proposalSetRepo.ListByGroup: %w", err)
	}
	sets := make([]domain.ProposalSet, 0, len(rows))
	for i := range rows {
		set, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("proposalSetRepo.ListByGroup: %w", err)
		}
		sets = append(sets, *set)
	}
	return sets, nil
}

func (r *proposalSetRepo) ListByTopicStatus(ctx context.Context, status domain.TopicStatus, offset, limit int) ([]domain.ProposalSet, int, error) {
	filter := `EXISTS (SELECT 1 FROM jsonb_each(topics) AS t WHERE t.value->>'status' = $1)`

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM proposal_sets WHERE "+filter, status)
	if err != nil {
		return nil, 0, fmt.Errorf("proposalSetRepo.ListByTopicStatus count: %w", err)
	}

	var rows []proposalSetRow
	err = r.db.SelectContext(ctx, &rows,
		"SELECT * FROM proposal_sets WHERE "+filter+" ORDER BY updated_at ASC LIMIT $2 OFFSET $3",
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("proposalSetRepo.ListByTopicStatus: %w", err)
	}
	sets := make([]domain.ProposalSet, 0, len(rows))
	for i := range rows {
		set, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("proposalSetRepo.ListByTopicStatus: %w", err)
		}
		sets = append(sets, *set)
	}
	return sets, total, nil
}

func (r *proposalSetRepo) Update(ctx context.Context, set *domain.ProposalSet) error {
	set.UpdatedAt = time.Now().UTC()

	topics, reviews, err := setPayloads(set)
	if err != nil {
		return fmt.Errorf("proposalSetRepo.Update: %w", err)
	}

	// TODO: two writers racing on the same set overwrite each other
	// here (whole-document write, no version column). Whether to
	// reject, merge, or keep last-write-wins is an open product call.
	result, err := r.db.ExecContext(ctx,
		`UPDATE proposal_sets SET awaiting_moderator = $1, awaiting_head = $2,
		 topics = $3, reviews = $4, updated_at = $5 WHERE id = $6`,
		set.AwaitingModerator, set.AwaitingHead, topics, reviews, set.UpdatedAt, set.ID)
	if err != nil {
		return fmt.Errorf("proposalSetRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSetNotFound
	}
	return nil
}

func (r *proposalSetRepo) AnyTopicUsedAsThesis(ctx context.Context, groupID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
			SELECT 1 FROM proposal_sets
			WHERE group_id = $1 AND EXISTS (
				SELECT 1 FROM jsonb_each(topics) AS t
				WHERE (t.value->>'used_as_thesis')::boolean = true))`,
		groupID)
	if err != nil {
		return false, fmt.Errorf("proposalSetRepo.AnyTopicUsedAsThesis: %w", err)
	}
	return exists, nil
}
