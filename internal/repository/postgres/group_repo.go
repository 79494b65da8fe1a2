package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type groupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo creates a new PostgreSQL-backed GroupRepository.
func NewGroupRepo(db *sqlx.DB) port.GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *domain.Group) error {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	query := `INSERT INTO groups (id, code, name, program, department, leader_id, topic_seq, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		group.ID, group.Code, group.Name, group.Program, group.Department,
		group.LeaderID, group.TopicSeq, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("groupRepo.Create: %w", err)
	}
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var g domain.Group
	err := r.db.GetContext(ctx, &g, "SELECT * FROM groups WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}
	return &g, nil
}

func (r *groupRepo) GetByCode(ctx context.Context, code string) (*domain.Group, error) {
	var g domain.Group
	err := r.db.GetContext(ctx, &g, "SELECT * FROM groups WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByCode: %w", err)
	}
	return &g, nil
}

func (r *groupRepo) List(ctx context.Context, offset, limit int) ([]domain.Group, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM groups"); err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List count: %w", err)
	}

	var groups []domain.Group
	err := r.db.SelectContext(ctx, &groups,
		"SELECT * FROM groups ORDER BY code ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List: %w", err)
	}
	return groups, total, nil
}

func (r *groupRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.* FROM groups g
		 INNER JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = $1
		 ORDER BY g.code ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.ListForUser: %w", err)
	}
	return groups, nil
}

func (r *groupRepo) Update(ctx context.Context, group *domain.Group) error {
	group.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE groups SET code = $1, name = $2, program = $3, department = $4,
		 leader_id = $5, updated_at = $6 WHERE id = $7`,
		group.Code, group.Name, group.Program, group.Department,
		group.LeaderID, group.UpdatedAt, group.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("groupRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM groups WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *groupRepo) AddMember(ctx context.Context, member *domain.GroupMember) error {
	member.AddedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, added_by, added_at)
		 VALUES ($1, $2, $3, $4)`,
		member.GroupID, member.UserID, member.AddedBy, member.AddedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("groupRepo.AddMember: %w", err)
	}
	return nil
}

func (r *groupRepo) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = $1 AND user_id = $2", groupID, userID)
	if err != nil {
		return fmt.Errorf("groupRepo.RemoveMember: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotGroupMember
	}
	return nil
}

func (r *groupRepo) ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.User, error) {
	var users []domain.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT u.* FROM users u
		 INNER JOIN group_members gm ON gm.user_id = u.id
		 WHERE gm.group_id = $1
		 ORDER BY u.full_name ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.ListMembers: %w", err)
	}
	return users, nil
}

func (r *groupRepo) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)",
		groupID, userID)
	if err != nil {
		return false, fmt.Errorf("groupRepo.IsMember: %w", err)
	}
	return exists, nil
}

// NextTopicSeq advances the group's topic counter atomically and
// returns the new value. The counter is the single source for topic id
// suffixes; concurrent inserts each get their own number.
func (r *groupRepo) NextTopicSeq(ctx context.Context, groupID uuid.UUID) (int, error) {
	var seq int
	err := r.db.GetContext(ctx, &seq,
		`UPDATE groups SET topic_seq = topic_seq + 1, updated_at = $2
		 WHERE id = $1 RETURNING topic_seq`,
		groupID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrGroupNotFound
		}
		return 0, fmt.Errorf("groupRepo.NextTopicSeq: %w", err)
	}
	return seq, nil
}
