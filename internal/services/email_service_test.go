package services

import (
	"context"
	"testing"
	"time"

	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestBuildReceiptEmailAttachesRawPDF(t *testing.T) {
	logger.Setup("test")

	cfg := &config.Config{
		ResendAPIKey: "test_key",
		FromEmail:    "receipts@serenity.test",
	}
	service := NewEmailService(cfg)

	client := &models.Client{Email: "client@example.com", FullName: "Dana Reyes"}
	receipt := &models.Receipt{
		Number:     "REC-2026-0042",
		AmountPaid: 120.00,
		Method:     "card",
		IssuedAt:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	pdf := []byte("%PDF-1.4 fake receipt body")

	req := service.buildReceiptEmail(client, receipt, "<html>receipt</html>", pdf)

	assert.Equal(t, "receipts@serenity.test", req.From)
	assert.Equal(t, []string{"client@example.com"}, req.To)
	assert.Equal(t, "Receipt REC-2026-0042", req.Subject)
	if assert.Len(t, req.Attachments, 1) {
		assert.Equal(t, "REC-2026-0042.pdf", req.Attachments[0].Filename)
		// The attachment must carry the PDF bytes as-is, not a base64 string.
		assert.Equal(t, pdf, req.Attachments[0].Content)
	}
}

func TestSendReceiptRequiresClientEmail(t *testing.T) {
	logger.Setup("test")

	service := NewEmailService(&config.Config{ResendAPIKey: "test_key"})
	client := &models.Client{FullName: "No Email"}

	err := service.SendReceipt(context.Background(), client, &models.Receipt{Number: "REC-2026-0001"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
}
