package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/klinika/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// InvoiceService turns paid bills into printable A5 invoices
type InvoiceService struct {
	sellingRepo billing.SellingRepository
	clinicRepo  clinic.ClinicRepository
	patientRepo patient.PatientRepository
	renderer    printing.PDFRenderer
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	sellingRepo billing.SellingRepository,
	clinicRepo clinic.ClinicRepository,
	patientRepo patient.PatientRepository,
	renderer printing.PDFRenderer,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		sellingRepo: sellingRepo,
		clinicRepo:  clinicRepo,
		patientRepo: patientRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

// RenderHTML builds the invoice HTML for a paid bill
func (s *InvoiceService) RenderHTML(ctx context.Context, clinicID, transactionID uuid.UUID) (string, error) {
	data, err := s.buildInvoiceData(ctx, clinicID, transactionID)
	if err != nil {
		return "", err
	}
	return printing.RenderInvoiceHTML(data)
}

// RenderPDF builds the invoice and renders it to PDF through headless Chrome
func (s *InvoiceService) RenderPDF(ctx context.Context, clinicID, transactionID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("PDF_RENDERING_DISABLED", "Invoice PDF rendering is not enabled on this server")
	}
	data, err := s.buildInvoiceData(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	html, err := printing.RenderInvoiceHTML(data)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  html,
		Title: data.InvoiceNumber,
	})
	if err != nil {
		s.logger.Error("Invoice PDF rendering failed",
			zap.String("invoice_number", data.InvoiceNumber),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Invoice rendered",
		zap.String("invoice_number", data.InvoiceNumber),
		zap.Int("pdf_bytes", len(result.PDFData)),
		zap.Duration("duration", result.RenderDuration))

	return result.PDFData, nil
}

func (s *InvoiceService) buildInvoiceData(ctx context.Context, clinicID, transactionID uuid.UUID) (*printing.InvoiceData, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	if !bill.Paid || bill.PaidAt == nil {
		return nil, shared.NewDomainError("TRANSACTION_UNPAID", "Cannot print an invoice for an unpaid transaction")
	}

	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, bill.PatientID)
	if err != nil {
		return nil, err
	}

	drugLines := make([]printing.InvoiceLine, len(bill.DrugCarts))
	for i, item := range bill.DrugCarts {
		drugLines[i] = printing.InvoiceLine{
			Name:      item.DrugName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.TotalPrice,
		}
	}
	actionLines := make([]printing.InvoiceLine, len(bill.ActionCarts))
	for i, item := range bill.ActionCarts {
		actionLines[i] = printing.InvoiceLine{
			Name:      item.ActionName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.TotalPrice,
		}
	}

	return &printing.InvoiceData{
		ClinicName:         c.Name,
		ClinicAddress:      c.Address,
		ClinicPhone:        c.Phone,
		InvoiceNumber:      bill.InvoiceNumber,
		RegistrationNumber: bill.RegistrationNumber,
		PatientName:        p.FullName,
		PaidAt:             *bill.PaidAt,
		OutpatientFee:      bill.OutpatientFee,
		DrugLines:          drugLines,
		ActionLines:        actionLines,
		Total:              bill.TotalPrice,
	}, nil
}
