package billing

import (
	"context"

	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
)

// TransactionScope runs payment inside one database transaction. Paying a
// bill dispenses the drug lines from stock, settles the invoice, advances
// the queue and books the cashier balance; a failure anywhere rolls the
// whole payment back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction.
type TransactionalRepositories interface {
	Sellings() billing.SellingRepository
	Drugs() pharmacy.DrugRepository
	Lots() pharmacy.StockLotRepository
	Queues() queue.QueueRepository
	Clinics() clinic.ClinicRepository
	Patients() patient.PatientRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	sellingRepo billing.SellingRepository
	drugRepo    pharmacy.DrugRepository
	lotRepo     pharmacy.StockLotRepository
	queueRepo   queue.QueueRepository
	clinicRepo  clinic.ClinicRepository
	patientRepo patient.PatientRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	sellingRepo billing.SellingRepository,
	drugRepo pharmacy.DrugRepository,
	lotRepo pharmacy.StockLotRepository,
	queueRepo queue.QueueRepository,
	clinicRepo clinic.ClinicRepository,
	patientRepo patient.PatientRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		sellingRepo: sellingRepo,
		drugRepo:    drugRepo,
		lotRepo:     lotRepo,
		queueRepo:   queueRepo,
		clinicRepo:  clinicRepo,
		patientRepo: patientRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Sellings returns the selling transaction repository
func (s *NoOpTransactionScope) Sellings() billing.SellingRepository {
	return s.sellingRepo
}

// Drugs returns the drug repository
func (s *NoOpTransactionScope) Drugs() pharmacy.DrugRepository {
	return s.drugRepo
}

// Lots returns the stock lot repository
func (s *NoOpTransactionScope) Lots() pharmacy.StockLotRepository {
	return s.lotRepo
}

// Queues returns the queue repository
func (s *NoOpTransactionScope) Queues() queue.QueueRepository {
	return s.queueRepo
}

// Clinics returns the clinic repository
func (s *NoOpTransactionScope) Clinics() clinic.ClinicRepository {
	return s.clinicRepo
}

// Patients returns the patient repository
func (s *NoOpTransactionScope) Patients() patient.PatientRepository {
	return s.patientRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
