package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"brokerdocs/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendRejectionNotice(ctx context.Context, toEmail, toName, documentName, reason string) error {
	subject := fmt.Sprintf("Documento rechazado: %s", documentName)
	htmlBody := buildRejectionHTML(toName, documentName, reason)
	textBody := fmt.Sprintf(
		"Estimado(a) %s,\n\nSu documento \"%s\" fue rechazado por el siguiente motivo:\n\n%s\n\nPor favor envíe el documento corregido a su asesor.\n\nEquipo %s",
		toName, documentName, reason, s.fromName)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendExpiryNotice(ctx context.Context, toEmail, toName, documentName string, daysLeft int) error {
	subject := fmt.Sprintf("Documento por vencer: %s", documentName)
	htmlBody := buildExpiryHTML(toName, documentName, daysLeft)
	textBody := fmt.Sprintf(
		"Estimado(a) %s,\n\nSu documento \"%s\" vence en %d días. Por favor envíe una versión vigente a su asesor.\n\nEquipo %s",
		toName, documentName, daysLeft, s.fromName)

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

func buildRejectionHTML(name, documentName, reason string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Documento rechazado</h2>
  <p>Estimado(a) %s,</p>
  <p>Su documento <strong>%s</strong> fue rechazado por el siguiente motivo:</p>
  <blockquote style="border-left: 4px solid #DC2626; margin: 20px 0; padding: 10px 20px; color: #555;">%s</blockquote>
  <p>Por favor envíe el documento corregido a su asesor.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Este es un mensaje automático; no responda a este correo.</p>
</body>
</html>`, name, documentName, reason)
}

func buildExpiryHTML(name, documentName string, daysLeft int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Documento por vencer</h2>
  <p>Estimado(a) %s,</p>
  <p>Su documento <strong>%s</strong> vence en <strong>%d días</strong>.</p>
  <p>Por favor envíe una versión vigente a su asesor para evitar retrasos en su operación.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Este es un mensaje automático; no responda a este correo.</p>
</body>
</html>`, name, documentName, daysLeft)
}
