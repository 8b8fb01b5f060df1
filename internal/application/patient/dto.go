package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/patient"
)

// RegisterPatientRequest registers a patient with the clinic
type RegisterPatientRequest struct {
	NIK          string    `json:"nik" binding:"required"`
	FullName     string    `json:"full_name" binding:"required"`
	Gender       string    `json:"gender" binding:"required,oneof=male female"`
	PlaceOfBirth string    `json:"place_of_birth"`
	BirthDate    time.Time `json:"birth_date" binding:"required"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Allergy      string    `json:"allergy"`
	Occupation   string    `json:"occupation"`
}

// UpdatePatientRequest updates a patient's registration details
type UpdatePatientRequest struct {
	FullName     string    `json:"full_name" binding:"required"`
	Gender       string    `json:"gender" binding:"required,oneof=male female"`
	PlaceOfBirth string    `json:"place_of_birth"`
	BirthDate    time.Time `json:"birth_date" binding:"required"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Allergy      string    `json:"allergy"`
	Occupation   string    `json:"occupation"`
}

// PatientListFilter filters the patient list
type PatientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID           uuid.UUID `json:"id"`
	RecordNumber string    `json:"record_number"`
	NIK          string    `json:"nik"`
	FullName     string    `json:"full_name"`
	Gender       string    `json:"gender"`
	PlaceOfBirth string    `json:"place_of_birth,omitempty"`
	BirthDate    time.Time `json:"birth_date"`
	Age          int       `json:"age"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Allergy      string    `json:"allergy,omitempty"`
	Occupation   string    `json:"occupation,omitempty"`
	Ready        bool      `json:"ready"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToPatientResponse maps a patient aggregate to its API representation
func ToPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:           p.ID,
		RecordNumber: p.RecordNumber,
		NIK:          p.NIK,
		FullName:     p.FullName,
		Gender:       string(p.Gender),
		PlaceOfBirth: p.PlaceOfBirth,
		BirthDate:    p.BirthDate,
		Age:          p.Age(time.Now()),
		Phone:        p.Phone,
		Address:      p.Address,
		Allergy:      p.Allergy,
		Occupation:   p.Occupation,
		Ready:        p.Ready,
		CreatedAt:    p.CreatedAt,
	}
}

// ToPatientResponses maps a slice of patients
func ToPatientResponses(patients []patient.Patient) []PatientResponse {
	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = ToPatientResponse(&patients[i])
	}
	return responses
}
