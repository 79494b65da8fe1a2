package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/notify"
	"gradus/internal/port"
)

// NotifyInput is the DTO for fanning one audit event out to a list of
// recipients.
type NotifyInput struct {
	Recipients []uuid.UUID
	Category   domain.NotificationCategory
	Action     string
	Details    map[string]any
}

// NotificationService defines the notification contract: persistence,
// badge aggregation and the live update stream.
type NotificationService interface {
	Notify(ctx context.Context, input *NotifyInput) error
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Notification, int, error)
	Badges(ctx context.Context, userID uuid.UUID, role domain.UserRole) (notify.BadgeCounts, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan port.Event, func(), error)
}

type notificationService struct {
	notifRepo port.NotificationRepository
	bus       port.EventBus
}

// NewNotificationService creates a new NotificationService implementation.
func NewNotificationService(notifRepo port.NotificationRepository, bus port.EventBus) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		bus:       bus,
	}
}

func userSubject(userID uuid.UUID) string {
	return "notify.user." + userID.String()
}

// Notify persists one notification per distinct recipient and nudges
// each recipient's live stream. Persistence failures for one recipient
// do not stop the fan-out; the first error is reported after all
// recipients were attempted. Bus publishes are best-effort.
func (s *notificationService) Notify(ctx context.Context, input *NotifyInput) error {
	var firstErr error
	seen := make(map[uuid.UUID]bool, len(input.Recipients))
	for _, recipient := range input.Recipients {
		if recipient == uuid.Nil || seen[recipient] {
			continue
		}
		seen[recipient] = true

		n := &domain.Notification{
			ID:          uuid.New(),
			RecipientID: recipient,
			Category:    input.Category,
			Action:      input.Action,
			Details:     input.Details,
		}
		if err := s.notifRepo.Create(ctx, n); err != nil {
			log.Printf("notificationService.Notify: persisting for %s: %v", recipient, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		payload, err := json.Marshal(map[string]string{
			"category": string(input.Category),
			"action":   input.Action,
		})
		if err != nil {
			payload = nil
		}
		event := port.Event{Subject: userSubject(recipient), Payload: payload}
		if err := s.bus.Publish(ctx, event); err != nil {
			log.Printf("notificationService.Notify: publishing for %s: %v", recipient, err)
		}
	}
	if firstErr != nil {
		return fmt.Errorf("notificationService.Notify: %w", firstErr)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Notification, int, error) {
	return s.notifRepo.ListByRecipient(ctx, userID, offset, limit)
}

// Badges recomputes the user's unread counts from scratch. The badge
// state is always derived from the current snapshot, never accumulated.
func (s *notificationService) Badges(ctx context.Context, userID uuid.UUID, role domain.UserRole) (notify.BadgeCounts, error) {
	unread, err := s.notifRepo.ListUnread(ctx, userID)
	if err != nil {
		return notify.BadgeCounts{}, fmt.Errorf("notificationService.Badges: %w", err)
	}
	return notify.GroupBySegment(unread, role), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.nudge(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.nudge(ctx, userID)
	return nil
}

// nudge tells the user's live stream that badge state changed. Streams
// recompute from the repository on every event, so the payload only has
// to wake them up.
func (s *notificationService) nudge(ctx context.Context, userID uuid.UUID) {
	payload, _ := json.Marshal(map[string]string{"action": "badges_changed"})
	if err := s.bus.Publish(ctx, port.Event{Subject: userSubject(userID), Payload: payload}); err != nil {
		log.Printf("notificationService.nudge: publishing for %s: %v", userID, err)
	}
}

func (s *notificationService) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan port.Event, func(), error) {
	return s.bus.Subscribe(ctx, userSubject(userID))
}
