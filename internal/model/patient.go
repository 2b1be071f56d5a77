package model

import "time"

// RequestStatusNotSeen is the status of a refill request no doctor has acted on.
const RequestStatusNotSeen = "Not Seen"

// Patient is keyed by Name. Two people sharing a name share a record.
type Patient struct {
	Name         string          `json:"name"`
	Requests     []RefillRequest `json:"requests"`
	HealthRecord HealthRecord    `json:"health_record"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RefillRequest is a prescription refill a patient asked for.
type RefillRequest struct {
	ID           string    `json:"id"`
	Prescription string    `json:"prescription"`
	Quantity     string    `json:"quantity"`
	Distributor  string    `json:"distributor"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// HealthRecord is replaced as a whole on every update.
type HealthRecord struct {
	Age       string `json:"age" form:"age"`
	Weight    string `json:"weight" form:"weight"`
	Height    string `json:"height" form:"height"`
	Gender    string `json:"gender" form:"gender"`
	Allergies string `json:"allergies" form:"allergies"`
}

// RefillRequestForm is posted by the patient dashboard.
type RefillRequestForm struct {
	PatientName  string `form:"patientName"`
	Prescription string `form:"prescription"`
	Quantity     string `form:"quantity"`
	Distributor  string `form:"distributor"`
}

// HealthRecordForm is posted by the patient dashboard.
type HealthRecordForm struct {
	PatientName string `form:"patientName"`
	HealthRecord
}

// Clone returns a deep copy.
func (p *Patient) Clone() *Patient {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Requests = append([]RefillRequest(nil), p.Requests...)
	return &cp
}
