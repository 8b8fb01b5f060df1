package identity

import (
	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// DoctorAssistant links an assistant account to the doctor it supports.
// A doctor manages their own assistants.
type DoctorAssistant struct {
	shared.BaseEntity
	ClinicID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assistant_doctor_user,priority:1"`
	AssistantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assistant_doctor_user,priority:2"`
}

// NewDoctorAssistant creates an assignment between a doctor and an assistant
func NewDoctorAssistant(clinicID, doctorID, assistantID uuid.UUID) (*DoctorAssistant, error) {
	if doctorID == assistantID {
		return nil, shared.NewDomainError("INVALID_ASSISTANT", "A doctor cannot assist themselves")
	}
	return &DoctorAssistant{
		BaseEntity:  shared.NewBaseEntity(),
		ClinicID:    clinicID,
		DoctorID:    doctorID,
		AssistantID: assistantID,
	}, nil
}
