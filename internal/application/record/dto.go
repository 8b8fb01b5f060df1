package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/record"
)

// VitalsRequest carries the vitals captured at the start of a consultation
type VitalsRequest struct {
	Height          float64 `json:"height"`
	Weight          float64 `json:"weight"`
	Systole         int     `json:"systole"`
	Diastole        int     `json:"diastole"`
	Temperature     float64 `json:"temperature"`
	Pulse           int     `json:"pulse"`
	RespiratoryRate int     `json:"respiratory_rate"`
}

// DrugAssessmentRequest is one prescribed drug line
type DrugAssessmentRequest struct {
	DrugID      uuid.UUID `json:"drug_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Instruction string    `json:"instruction"`
}

// ActionRequest is one procedure performed during the visit
type ActionRequest struct {
	ActionID uuid.UUID `json:"action_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// SubmitAssessmentRequest closes a consultation: the medical record, the
// prescriptions and the performed procedures in one submission
type SubmitAssessmentRequest struct {
	QueueID    uuid.UUID               `json:"queue_id" binding:"required"`
	Vitals     VitalsRequest           `json:"vitals"`
	Subjective string                  `json:"subjective"`
	Objective  string                  `json:"objective"`
	Assessment string                  `json:"assessment" binding:"required"`
	Plan       string                  `json:"plan"`
	Drugs      []DrugAssessmentRequest `json:"drugs" binding:"dive"`
	Actions    []ActionRequest         `json:"actions" binding:"dive"`
}

// DrugAssessmentResponse is one prescription line on a record
type DrugAssessmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DrugID      uuid.UUID `json:"drug_id"`
	DrugName    string    `json:"drug_name"`
	Quantity    int       `json:"quantity"`
	Instruction string    `json:"instruction,omitempty"`
}

// RecordResponse represents a medical record in API responses
type RecordResponse struct {
	ID               uuid.UUID                `json:"id"`
	PatientID        uuid.UUID                `json:"patient_id"`
	DoctorID         uuid.UUID                `json:"doctor_id"`
	QueueID          uuid.UUID                `json:"queue_id"`
	RecordNumber     string                   `json:"record_number"`
	PatientName      string                   `json:"patient_name"`
	PatientNIK       string                   `json:"patient_nik,omitempty"`
	PatientGender    string                   `json:"patient_gender,omitempty"`
	PatientBirthDate time.Time                `json:"patient_birth_date"`
	Vitals           VitalsRequest            `json:"vitals"`
	Subjective       string                   `json:"subjective,omitempty"`
	Objective        string                   `json:"objective,omitempty"`
	Assessment       string                   `json:"assessment"`
	Plan             string                   `json:"plan,omitempty"`
	DrugAssessments  []DrugAssessmentResponse `json:"drug_assessments"`
	CreatedAt        time.Time                `json:"created_at"`
}

// SubmitAssessmentResponse reports what the submission created
type SubmitAssessmentResponse struct {
	Record        RecordResponse `json:"record"`
	TransactionID uuid.UUID      `json:"transaction_id"`
	QueueStatus   string         `json:"queue_status"`
}

// ToRecordResponse maps a record aggregate to its API representation
func ToRecordResponse(r *record.Record) RecordResponse {
	assessments := make([]DrugAssessmentResponse, len(r.DrugAssessments))
	for i, a := range r.DrugAssessments {
		assessments[i] = DrugAssessmentResponse{
			ID:          a.ID,
			DrugID:      a.DrugID,
			DrugName:    a.DrugName,
			Quantity:    a.Quantity,
			Instruction: a.Instruction,
		}
	}
	return RecordResponse{
		ID:               r.ID,
		PatientID:        r.PatientID,
		DoctorID:         r.DoctorID,
		QueueID:          r.QueueID,
		RecordNumber:     r.RecordNumber,
		PatientName:      r.PatientName,
		PatientNIK:       r.PatientNIK,
		PatientGender:    r.PatientGender,
		PatientBirthDate: r.PatientBirthDate,
		Vitals: VitalsRequest{
			Height:          r.Vitals.Height,
			Weight:          r.Vitals.Weight,
			Systole:         r.Vitals.Systole,
			Diastole:        r.Vitals.Diastole,
			Temperature:     r.Vitals.Temperature,
			Pulse:           r.Vitals.Pulse,
			RespiratoryRate: r.Vitals.RespiratoryRate,
		},
		Subjective:      r.Subjective,
		Objective:       r.Objective,
		Assessment:      r.Assessment,
		Plan:            r.Plan,
		DrugAssessments: assessments,
		CreatedAt:       r.CreatedAt,
	}
}

// ToRecordResponses maps a slice of records
func ToRecordResponses(records []record.Record) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}
