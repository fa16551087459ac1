package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/serenispa/serenity-api/internal/jobs"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/storage"
	"github.com/serenispa/serenity-api/pkg/logger"
)

type ReceiptService struct {
	repo        repository.ReceiptRepository
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	storage     *storage.LocalStorage
	emailSvc    *EmailService
	worker      *jobs.Worker
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	store *storage.LocalStorage,
	emailSvc *EmailService,
	worker *jobs.Worker,
) *ReceiptService {
	return &ReceiptService{
		repo:        repo,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		storage:     store,
		emailSvc:    emailSvc,
		worker:      worker,
	}
}

// Generate issues a receipt for a completed payment. Numbers come from the
// persisted per-year sequence, so a payment keeps the same number across
// repeated calls; only the first call consumes a sequence value.
func (s *ReceiptService) Generate(ctx context.Context, paymentID uint) (*models.Receipt, []byte, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	client, err := s.clientRepo.FindByID(ctx, payment.ClientID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	number := ""
	if payment.ReceiptNumber != nil {
		number = *payment.ReceiptNumber
	} else {
		number, err = s.repo.NextNumber(ctx, payment.PaidAt.Year())
		if err != nil {
			return nil, nil, fmt.Errorf("allocate receipt number: %w", err)
		}
	}

	receipt := &models.Receipt{
		Number:     number,
		PaymentID:  payment.ID,
		InvoiceID:  invoice.ID,
		ClientName: client.FullName,
		AmountPaid: payment.Amount,
		Method:     payment.Method,
		IssuedAt:   payment.PaidAt,
	}

	pdfBytes, err := s.renderPDF(receipt, invoice)
	if err != nil {
		return nil, nil, fmt.Errorf("render receipt: %w", err)
	}

	if payment.ReceiptNumber == nil {
		filename := fmt.Sprintf("%s.pdf", strings.ToLower(number))
		path, err := s.storage.UploadFromBytes(pdfBytes, filename, "receipts")
		if err != nil {
			return nil, nil, fmt.Errorf("store receipt: %w", err)
		}
		payment.ReceiptNumber = &number
		payment.ReceiptPath = &path
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return nil, nil, fmt.Errorf("record receipt number: %w", err)
		}
	}

	return receipt, pdfBytes, nil
}

// GenerateAndEmail issues the receipt and sends it to the client in the
// background. Email failures are logged, not surfaced, since the receipt
// itself was already issued.
func (s *ReceiptService) GenerateAndEmail(ctx context.Context, paymentID uint) (*models.Receipt, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, ErrNotFound
	}
	client, err := s.clientRepo.FindByID(ctx, payment.ClientID)
	if err != nil {
		return nil, ErrNotFound
	}

	receipt, pdfBytes, err := s.Generate(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.emailSvc.SendReceipt(ctx, client, receipt, pdfBytes); err != nil {
			logger.Warn("receipt email failed", "receipt", receipt.Number, "error", err)
		}
		return nil
	})

	return receipt, nil
}

func (s *ReceiptService) renderPDF(receipt *models.Receipt, invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Serenity Massage & Wellness")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, receipt.Number)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Date:")
	pdf.Cell(60, 8, receipt.IssuedAt.Format("January 2, 2006"))
	pdf.Ln(8)

	pdf.Cell(60, 8, "Received from:")
	pdf.Cell(60, 8, receipt.ClientName)
	pdf.Ln(8)

	pdf.Cell(60, 8, "Invoice:")
	pdf.Cell(60, 8, fmt.Sprintf("#%d", receipt.InvoiceID))
	pdf.Ln(8)

	method := receipt.Method
	if method != "" {
		method = strings.ToUpper(method[:1]) + method[1:]
	}
	pdf.Cell(60, 8, "Payment method:")
	pdf.Cell(60, 8, method)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 8, "Amount paid:")
	pdf.Cell(60, 8, fmt.Sprintf("$%.2f", receipt.AmountPaid))
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(120, 8, NumberToWords(receipt.AmountPaid))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(60, 8, "Invoice total:")
	pdf.Cell(60, 8, fmt.Sprintf("$%.2f", invoice.Total))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Balance remaining:")
	pdf.Cell(60, 8, fmt.Sprintf("$%.2f", invoice.BalanceRemaining()))
	pdf.Ln(14)

	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(120, 8, "Thank you for visiting Serenity Massage & Wellness.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
