package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendRecoveryCode(ctx context.Context, user *models.User, code string) error {
	data := struct {
		Name    string
		Code    string
		Minutes int
		AppURL  string
	}{
		Name:    user.FullName,
		Code:    code,
		Minutes: 15,
		AppURL:  s.config.AppURL,
	}

	body, err := s.renderTemplate("recovery_code.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "Your password recovery code",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", user.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", user.Email, "subject", "recovery code")
	return nil
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User, tempPassword string) error {
	data := struct {
		Name         string
		Email        string
		TempPassword string
		AppURL       string
	}{
		Name:         user.FullName,
		Email:        user.Email,
		TempPassword: tempPassword,
		AppURL:       s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "Welcome to Serenity",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", user.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", user.Email, "subject", "welcome")
	return nil
}

// SendReceipt emails a payment receipt to the client with the PDF attached
func (s *EmailService) SendReceipt(ctx context.Context, client *models.Client, receipt *models.Receipt, pdf []byte) error {
	if client.Email == "" {
		return fmt.Errorf("client #%d has no email address", client.ID)
	}

	data := struct {
		Name   string
		Number string
		Amount string
		Method string
		Date   string
		AppURL string
	}{
		Name:   client.FullName,
		Number: receipt.Number,
		Amount: fmt.Sprintf("$%.2f", receipt.AmountPaid),
		Method: receipt.Method,
		Date:   receipt.IssuedAt.Format("January 2, 2006"),
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("payment_receipt.html", data)
	if err != nil {
		return err
	}

	params := s.buildReceiptEmail(client, receipt, body, pdf)
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", client.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", client.Email, "subject", "receipt", "number", receipt.Number)
	return nil
}

// buildReceiptEmail assembles the receipt message with the PDF attached.
// Resend expects raw attachment bytes; the API client encodes them itself.
func (s *EmailService) buildReceiptEmail(client *models.Client, receipt *models.Receipt, body string, pdf []byte) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{client.Email},
		Subject: fmt.Sprintf("Receipt %s", receipt.Number),
		Html:    body,
		Attachments: []*resend.Attachment{
			{
				Filename: fmt.Sprintf("%s.pdf", receipt.Number),
				Content:  pdf,
			},
		},
	}
}

// SendAppointmentReminder emails a client about an upcoming appointment
func (s *EmailService) SendAppointmentReminder(ctx context.Context, client *models.Client, appointment *models.Appointment) error {
	if client.Email == "" {
		return fmt.Errorf("client #%d has no email address", client.ID)
	}

	data := struct {
		Name        string
		ServiceName string
		StartsAt    string
		Duration    int
		AppURL      string
	}{
		Name:        client.FullName,
		ServiceName: models.ServiceDisplayName(appointment.ServiceType),
		StartsAt:    appointment.ScheduledAt.Format("Monday, January 2 at 3:04 PM"),
		Duration:    appointment.DurationMinutes,
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("appointment_reminder.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{client.Email},
		Subject: "Appointment reminder",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", client.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", client.Email, "subject", "appointment reminder")
	return nil
}

// SendOverdueNotice emails a client about an unpaid invoice
func (s *EmailService) SendOverdueNotice(ctx context.Context, client *models.Client, invoice *models.Invoice) error {
	if client.Email == "" {
		return fmt.Errorf("client #%d has no email address", client.ID)
	}

	data := struct {
		Name      string
		InvoiceID uint
		IssuedAt  string
		Balance   string
		AppURL    string
	}{
		Name:      client.FullName,
		InvoiceID: invoice.ID,
		IssuedAt:  invoice.IssuedAt.Format("January 2, 2006"),
		Balance:   fmt.Sprintf("$%.2f", invoice.BalanceRemaining()),
		AppURL:    s.config.AppURL,
	}

	body, err := s.renderTemplate("invoice_overdue.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{client.Email},
		Subject: fmt.Sprintf("Invoice #%d is past due", invoice.ID),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", client.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", client.Email, "subject", "overdue notice")
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
