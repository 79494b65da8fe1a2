package port

import (
	"context"

	"gradus/internal/domain"
)

// EmailSender defines the contract for sending review emails. Sends are
// best-effort: callers log failures and never roll a decision back over
// a mail problem.
type EmailSender interface {
	SendSetSubmitted(ctx context.Context, toEmail, toName, groupName string, setNumber int) error
	SendTopicDecision(ctx context.Context, toEmail, toName, topicTitle string, stage domain.ReviewStage, status domain.DecisionStatus, notes string) error
}
