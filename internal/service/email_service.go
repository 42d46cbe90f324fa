package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"carebridge/internal/models"
)

// EmailService delivers critical-alert emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail
// creates a disabled service that skips all sends.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendCriticalAlertEmail mirrors a critical in-app notification to a
// caregiver's inbox.
func (s *EmailService) SendCriticalAlertEmail(ctx context.Context, toEmail, toName string, item models.NotificationItem) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): %s to %s", item.Title, toEmail)
		return nil
	}

	subject := fmt.Sprintf("CareBridge Alert: %s", item.Title)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #d9534f; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #d9534f; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Open CareBridge</a>
			</p>
			<p>Raised at %s.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from CareBridge. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, item.Title, toName, item.Message, s.appBaseURL, item.CreatedAt.Format("15:04 on Jan 2, 2006"))

	textBody := fmt.Sprintf(`Hi %s,

%s

%s

Raised at %s.
Open CareBridge: %s

---
This is an automated email from CareBridge. Please do not reply.
`, toName, item.Title, item.Message, item.CreatedAt.Format("15:04 on Jan 2, 2006"), s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if result.MessageId != nil {
		log.Printf("Email sent successfully: to=%s, subject=%s, id=%s", toEmail, subject, *result.MessageId)
	}
	return nil
}
