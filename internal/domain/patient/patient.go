package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// Gender of a patient
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid checks if the gender value is known
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Patient is a registered patient of a clinic
type Patient struct {
	shared.ClinicAggregateRoot
	RecordNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_patient_clinic_record,priority:2"`
	NIK          string    `gorm:"type:varchar(20);not null;index"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Gender       Gender    `gorm:"type:varchar(10);not null"`
	PlaceOfBirth string    `gorm:"type:varchar(100)"`
	BirthDate    time.Time `gorm:"not null"`
	Phone        string    `gorm:"type:varchar(50)"`
	Address      string    `gorm:"type:varchar(500)"`
	Allergy      string    `gorm:"type:varchar(500)"`
	Occupation   string    `gorm:"type:varchar(100)"`
	Ready        bool      `gorm:"not null;default:true"`
}

// NewPatient registers a patient with a clinic
func NewPatient(
	clinicID uuid.UUID,
	recordNumber, nik, fullName string,
	gender Gender,
	placeOfBirth string,
	birthDate time.Time,
	phone, address, allergy, occupation string,
) (*Patient, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient name is required")
	}
	if nik == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient NIK is required")
	}
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Unknown gender")
	}

	return &Patient{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		RecordNumber:        recordNumber,
		NIK:                 nik,
		FullName:            fullName,
		Gender:              gender,
		PlaceOfBirth:        placeOfBirth,
		BirthDate:           birthDate,
		Phone:               phone,
		Address:             address,
		Allergy:             allergy,
		Occupation:          occupation,
		Ready:               true,
	}, nil
}

// Update changes the patient's registration details
func (p *Patient) Update(fullName string, gender Gender, placeOfBirth string, birthDate time.Time, phone, address, allergy, occupation string) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_PATIENT", "Patient name is required")
	}
	if !gender.IsValid() {
		return shared.NewDomainError("INVALID_PATIENT", "Unknown gender")
	}
	p.FullName = fullName
	p.Gender = gender
	p.PlaceOfBirth = placeOfBirth
	p.BirthDate = birthDate
	p.Phone = phone
	p.Address = address
	p.Allergy = allergy
	p.Occupation = occupation
	p.UpdatedAt = time.Now()
	return nil
}

// MarkBusy flags the patient as currently in a visit
func (p *Patient) MarkBusy() {
	p.Ready = false
	p.UpdatedAt = time.Now()
}

// MarkReady flags the patient as available for a new visit
func (p *Patient) MarkReady() {
	p.Ready = true
	p.UpdatedAt = time.Now()
}

// Age returns the patient's age in whole years at the given time
func (p *Patient) Age(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	if at.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// FormatRecordNumber formats a medical record number from its sequence
func FormatRecordNumber(sequence int64) string {
	return fmt.Sprintf("RM%06d", sequence)
}
