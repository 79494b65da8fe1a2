package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type notificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo creates a new PostgreSQL-backed
// NotificationRepository.
func NewNotificationRepo(db *sqlx.DB) port.NotificationRepository {
	return &notificationRepo{db: db}
}

type notificationRow struct {
	ID          uuid.UUID                   `db:"id"`
	RecipientID uuid.UUID                   `db:"recipient_id"`
	Category    domain.NotificationCategory `db:"category"`
	Action      string                      `db:"action"`
	Details     json.RawMessage             `db:"details"`
	Read        bool                        `db:"read"`
	CreatedAt   time.Time                   `db:"created_at"`
}

func (row *notificationRow) toDomain() (*domain.Notification, error) {
	n := &domain.Notification{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		Category:    row.Category,
		Action:      row.Action,
		Details:     map[string]any{},
		Read:        row.Read,
		CreatedAt:   row.CreatedAt,
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &n.Details); err != nil {
			return nil, fmt.Errorf("unmarshaling details: %w", err)
		}
	}
	return n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now().UTC()

	if n.Details == nil {
		n.Details = map[string]any{}
	}
	details, err := json.Marshal(n.Details)
	if err != nil {
		return fmt.Errorf("notificationRepo.Create: marshaling details: %w", err)
	}

	query := `INSERT INTO notifications (id, recipient_id, category, action, details, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.Category, n.Action, details, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("notificationRepo.Create: %w", err)
	}
	return nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, offset, limit int) ([]domain.Notification, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1", recipientID)
	if err != nil {
		return nil, 0, fmt.Errorf("notificationRepo.ListByRecipient count: %w", err)
	}

	var rows []notificationRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT * FROM notifications WHERE recipient_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("notificationRepo.ListByRecipient: %w", err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("notificationRepo.ListByRecipient: %w", err)
		}
		out = append(out, *n)
	}
	return out, total, nil
}

func (r *notificationRepo) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	var rows []notificationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM notifications WHERE recipient_id = $1 AND read = false
		 ORDER BY created_at DESC`,
		recipientID)
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.ListUnread: %w", err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("notificationRepo.ListUnread: %w", err)
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = true WHERE id = $1 AND recipient_id = $2",
		id, recipientID)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkRead: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false",
		recipientID)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkAllRead: %w", err)
	}
	return nil
}
