package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Valid frequency values for a prescription line item.
const (
	FrequencyMorning   = "morning"
	FrequencyAfternoon = "afternoon"
	FrequencyEvening   = "evening"
)

// PrescriptionItem is one medicine line on a prescription.
type PrescriptionItem struct {
	MedicineName string   `json:"medicine_name" binding:"required"`
	Quantity     int      `json:"quantity" binding:"required,gt=0"`
	Frequency    []string `json:"frequency" binding:"required,min=1,dive,oneof=morning afternoon evening"`
	Timing       string   `json:"timing" binding:"required"`
	Notes        string   `json:"notes"`
}

// PrescriptionItems is stored as a single JSONB column.
type PrescriptionItems []PrescriptionItem

func (p PrescriptionItems) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PrescriptionItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("unsupported prescription items type %T", src)
	}
}

// Prescription is issued by a doctor to a patient.
type Prescription struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"date" json:"date"`
	Items     PrescriptionItems `db:"items" json:"prescription"`
}

// PrescriptionParty is the display block for either side of a prescription.
type PrescriptionParty struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization,omitempty" db:"specialization"`
}

// PrescriptionView is a prescription joined with both parties' display fields.
type PrescriptionView struct {
	Prescription
	User   PrescriptionParty `json:"user" db:"user"`
	Doctor PrescriptionParty `json:"doctor" db:"doctor"`
}

type CreatePrescriptionRequest struct {
	PatientID uuid.UUID          `json:"patient_id" binding:"required"`
	Items     []PrescriptionItem `json:"prescription" binding:"required,min=1,dive"`
}
