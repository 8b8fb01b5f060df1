package queue

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// Status of a queue entry. Entries walk the statuses strictly in order:
// consult-wait, consulting, payment, drug-pick-up, done.
type Status string

const (
	StatusConsultWait Status = "consult-wait"
	StatusConsulting  Status = "consulting"
	StatusPayment     Status = "payment"
	StatusDrugPickUp  Status = "drug-pick-up"
	StatusDone        Status = "done"
)

// IsValid checks if the status value is known
func (s Status) IsValid() bool {
	switch s {
	case StatusConsultWait, StatusConsulting, StatusPayment, StatusDrugPickUp, StatusDone:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to the target status
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusConsultWait: {StatusConsulting},
		StatusConsulting:  {StatusPayment},
		StatusPayment:     {StatusDrugPickUp, StatusDone},
		StatusDrugPickUp:  {StatusDone},
		StatusDone:        {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Queue is one patient visit moving through the clinic
type Queue struct {
	shared.ClinicAggregateRoot
	RegistrationNumber string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_queue_clinic_regnum,priority:2"`
	PatientID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DoctorID           *uuid.UUID `gorm:"type:uuid;index"`
	Status             Status     `gorm:"type:varchar(20);not null"`
}

// NewQueue enqueues a patient for consultation
func NewQueue(clinicID, patientID uuid.UUID, registrationNumber string) *Queue {
	return &Queue{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		RegistrationNumber:  registrationNumber,
		PatientID:           patientID,
		Status:              StatusConsultWait,
	}
}

// transition moves the queue to the target status, enforcing order
func (q *Queue) transition(target Status) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.ErrInvalidQueueStatus
	}
	q.Status = target
	q.UpdatedAt = time.Now()
	return nil
}

// StartConsultation assigns the doctor and moves the entry to consulting
func (q *Queue) StartConsultation(doctorID uuid.UUID) error {
	if err := q.transition(StatusConsulting); err != nil {
		return err
	}
	q.DoctorID = &doctorID
	return nil
}

// SendToPayment moves the entry from consulting to payment.
// Called when the doctor submits the assessment.
func (q *Queue) SendToPayment() error {
	return q.transition(StatusPayment)
}

// SendToPickup moves a paid entry to drug pick-up
func (q *Queue) SendToPickup() error {
	if q.Status != StatusPayment {
		return shared.ErrInvalidQueueStatus
	}
	return q.transition(StatusDrugPickUp)
}

// Finish completes the visit. Valid from payment (no drugs to pick up)
// or drug-pick-up.
func (q *Queue) Finish() error {
	return q.transition(StatusDone)
}

// CanCancel reports whether the entry can still be cancelled
func (q *Queue) CanCancel() bool {
	return q.Status == StatusConsultWait
}

// FormatRegistrationNumber builds a registration number for the given day.
// Format: REG/YYYYMMDD/ + 4 random digits.
func FormatRegistrationNumber(t time.Time) string {
	return fmt.Sprintf("REG/%s/%04d", t.Format("20060102"), rand.Intn(10000))
}
