package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// Vitals captured at the start of a consultation
type Vitals struct {
	Height          float64 `gorm:"type:decimal(5,1)"`
	Weight          float64 `gorm:"type:decimal(5,1)"`
	Systole         int
	Diastole        int
	Temperature     float64 `gorm:"type:decimal(4,1)"`
	Pulse           int
	RespiratoryRate int
}

// Record is the medical record of one consultation. Patient identity is
// snapshotted so the record stays faithful if the patient data changes.
type Record struct {
	shared.ClinicAggregateRoot
	PatientID uuid.UUID `gorm:"type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	QueueID   uuid.UUID `gorm:"type:uuid;not null"`

	// Patient snapshot
	RecordNumber    string    `gorm:"type:varchar(20);not null"`
	PatientName     string    `gorm:"type:varchar(255);not null"`
	PatientNIK      string    `gorm:"type:varchar(20)"`
	PatientGender   string    `gorm:"type:varchar(10)"`
	PatientBirthDate time.Time

	Vitals Vitals `gorm:"embedded"`

	// SOAP notes
	Subjective string `gorm:"type:text"`
	Objective  string `gorm:"type:text"`
	Assessment string `gorm:"type:text"`
	Plan       string `gorm:"type:text"`

	DrugAssessments []DrugAssessment `gorm:"foreignKey:RecordID"`
}

// DrugAssessment is a prescribed drug with usage instructions
type DrugAssessment struct {
	shared.BaseEntity
	RecordID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DrugID      uuid.UUID `gorm:"type:uuid;not null"`
	DrugName    string    `gorm:"type:varchar(255);not null"`
	Quantity    int       `gorm:"not null"`
	Instruction string    `gorm:"type:varchar(500)"`
}

// PatientSnapshot carries the identity fields copied onto a record
type PatientSnapshot struct {
	RecordNumber string
	FullName     string
	NIK          string
	Gender       string
	BirthDate    time.Time
}

// NewRecord creates a consultation record
func NewRecord(clinicID, patientID, doctorID, queueID uuid.UUID, snapshot PatientSnapshot, vitals Vitals, subjective, objective, assessment, plan string) (*Record, error) {
	if snapshot.FullName == "" {
		return nil, shared.NewDomainError("INVALID_RECORD", "Patient snapshot is required")
	}
	if assessment == "" {
		return nil, shared.NewDomainError("INVALID_RECORD", "Assessment is required")
	}

	return &Record{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		PatientID:           patientID,
		DoctorID:            doctorID,
		QueueID:             queueID,
		RecordNumber:        snapshot.RecordNumber,
		PatientName:         snapshot.FullName,
		PatientNIK:          snapshot.NIK,
		PatientGender:       snapshot.Gender,
		PatientBirthDate:    snapshot.BirthDate,
		Vitals:              vitals,
		Subjective:          subjective,
		Objective:           objective,
		Assessment:          assessment,
		Plan:                plan,
		DrugAssessments:     make([]DrugAssessment, 0),
	}, nil
}

// AddDrugAssessment appends a prescription line to the record
func (r *Record) AddDrugAssessment(drugID uuid.UUID, drugName string, quantity int, instruction string) (*DrugAssessment, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Prescription quantity must be positive")
	}
	if drugName == "" {
		return nil, shared.NewDomainError("INVALID_RECORD", "Drug name is required")
	}

	assessment := DrugAssessment{
		BaseEntity:  shared.NewBaseEntity(),
		RecordID:    r.ID,
		DrugID:      drugID,
		DrugName:    drugName,
		Quantity:    quantity,
		Instruction: instruction,
	}
	r.DrugAssessments = append(r.DrugAssessments, assessment)
	r.UpdatedAt = time.Now()
	return &r.DrugAssessments[len(r.DrugAssessments)-1], nil
}
