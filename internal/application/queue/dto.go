package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/queue"
)

// EnqueueRequest puts a patient into today's queue
type EnqueueRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

// QueueListFilter filters a day's queue entries
type QueueListFilter struct {
	Status   string `form:"status" binding:"required"`
	Date     string `form:"date"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// QueueResponse represents a queue entry in API responses
type QueueResponse struct {
	ID                 uuid.UUID  `json:"id"`
	RegistrationNumber string     `json:"registration_number"`
	PatientID          uuid.UUID  `json:"patient_id"`
	PatientName        string     `json:"patient_name,omitempty"`
	RecordNumber       string     `json:"record_number,omitempty"`
	DoctorID           *uuid.UUID `json:"doctor_id,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// QueueCountsResponse reports how many entries sit in each status today
type QueueCountsResponse struct {
	ConsultWait int64 `json:"consult_wait"`
	Consulting  int64 `json:"consulting"`
	Payment     int64 `json:"payment"`
	DrugPickUp  int64 `json:"drug_pick_up"`
	Done        int64 `json:"done"`
}

// ToQueueResponse maps a queue entry to its API representation
func ToQueueResponse(q *queue.Queue) QueueResponse {
	return QueueResponse{
		ID:                 q.ID,
		RegistrationNumber: q.RegistrationNumber,
		PatientID:          q.PatientID,
		DoctorID:           q.DoctorID,
		Status:             q.Status.String(),
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}
