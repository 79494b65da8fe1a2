package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"gradus/internal/domain"
	"gradus/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendSetSubmitted(ctx context.Context, toEmail, toName, groupName string, setNumber int) error {
	queueURL := fmt.Sprintf("%s/review/queue", s.frontendURL)

	subject := fmt.Sprintf("Proposal set #%d from %s is ready for review", setNumber, groupName)
	htmlBody := buildSetSubmittedHTML(toName, groupName, setNumber, queueURL)
	textBody := fmt.Sprintf("Hi %s,\n\nGroup %s submitted proposal set #%d. Open your review queue to process it:\n%s\n\nGradus", toName, groupName, setNumber, queueURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendTopicDecision(ctx context.Context, toEmail, toName, topicTitle string, stage domain.ReviewStage, status domain.DecisionStatus, notes string) error {
	proposalsURL := fmt.Sprintf("%s/proposals", s.frontendURL)

	subject := fmt.Sprintf("Your topic %q was %s at the %s stage", topicTitle, status, stage)
	htmlBody := buildTopicDecisionHTML(toName, topicTitle, string(stage), string(status), notes, proposalsURL)
	textBody := fmt.Sprintf("Hi %s,\n\nYour topic %q was %s at the %s review stage.", toName, topicTitle, status, stage)
	if notes != "" {
		textBody += fmt.Sprintf("\n\nReviewer notes:\n%s", notes)
	}
	textBody += fmt.Sprintf("\n\nFollow up here:\n%s\n\nGradus", proposalsURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSetSubmittedHTML(name, groupName string, setNumber int, queueURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">A proposal set is waiting for you</h2>
  <p>Hi %s,</p>
  <p>Group <strong>%s</strong> submitted proposal set #%d. Open your review queue to process the topics:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open Review Queue</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Gradus - Thesis Progression Platform</p>
</body>
</html>`, name, groupName, setNumber, queueURL)
}

func buildTopicDecisionHTML(name, topicTitle, stage, status, notes, proposalsURL string) string {
	notesBlock := ""
	if notes != "" {
		notesBlock = fmt.Sprintf(`<p>Reviewer notes:</p><blockquote style="border-left: 3px solid #ddd; margin: 0; padding-left: 12px; color: #555;">%s</blockquote>`, notes)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Review decision on your topic</h2>
  <p>Hi %s,</p>
  <p>Your topic <strong>%s</strong> was <strong>%s</strong> at the %s review stage.</p>
  %s
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Proposals</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Gradus - Thesis Progression Platform</p>
</body>
</html>`, name, topicTitle, status, stage, notesBlock, proposalsURL)
}
