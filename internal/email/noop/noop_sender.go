package noop

import (
	"context"
	"log"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of
// sending, for local development and tests.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSetSubmitted(_ context.Context, toEmail, toName, groupName string, setNumber int) error {
	log.Printf("[NOOP EMAIL] Set submitted notice for %s (%s): group %s, set #%d", toName, toEmail, groupName, setNumber)
	return nil
}

func (s *noopSender) SendTopicDecision(_ context.Context, toEmail, toName, topicTitle string, stage domain.ReviewStage, status domain.DecisionStatus, _ string) error {
	log.Printf("[NOOP EMAIL] Topic decision for %s (%s): %q %s at %s", toName, toEmail, topicTitle, status, stage)
	return nil
}
