package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type ConsultationType string

const (
	ConsultationInPerson ConsultationType = "inperson"
	ConsultationOnline   ConsultationType = "online"
)

// Appointment is a scheduled consultation between one patient and one doctor.
// RoomID is set once at creation for online appointments and never changes.
type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Type      ConsultationType  `db:"type" json:"type"`
	Date      time.Time         `db:"date" json:"date"`
	Time      string            `db:"time" json:"time"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	RoomID    string            `db:"room_id" json:"room_id,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID        `json:"doctor_id" binding:"required"`
	Date     time.Time        `json:"date" binding:"required"`
	Time     string           `json:"time" binding:"required,hhmm"`
	Type     ConsultationType `json:"type" binding:"required,oneof=inperson online"`
	Notes    string           `json:"notes" binding:"max=1000"`
}

// UpdateAppointmentRequest carries the patient-mutable fields. Status is
// never mutable through this path.
type UpdateAppointmentRequest struct {
	DoctorID *uuid.UUID        `json:"doctor_id"`
	Date     *time.Time        `json:"date"`
	Time     *string           `json:"time" binding:"omitempty,hhmm"`
	Type     *ConsultationType `json:"type" binding:"omitempty,oneof=inperson online"`
	Notes    *string           `json:"notes" binding:"omitempty,max=1000"`
}

// DoctorInfo is the flattened User + DoctorProfile joined onto a patient's
// appointment row. Duplicate identifier fields are suppressed.
type DoctorInfo struct {
	FirstName      string `json:"first_name" db:"first_name"`
	LastName       string `json:"last_name" db:"last_name"`
	Email          string `json:"email" db:"email"`
	Phone          string `json:"phone" db:"phone"`
	Avatar         string `json:"avatar" db:"avatar"`
	Degree         string `json:"degree" db:"degree"`
	Specialization string `json:"specialization" db:"specialization"`
	Experience     int    `json:"experience" db:"experience"`
	WorkingPlace   string `json:"working_place" db:"working_place"`
	IsAvailable    bool   `json:"is_available" db:"is_available"`
}

// PatientInfo is the flattened User + PatientProfile joined onto a doctor's
// appointment row.
type PatientInfo struct {
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Avatar     string    `json:"avatar" db:"avatar"`
	Gender     string    `json:"gender" db:"gender"`
	DOB        time.Time `json:"dob" db:"dob"`
	BloodGroup string    `json:"blood_group" db:"blood_group"`
	Weight     float64   `json:"weight" db:"weight"`
	Height     float64   `json:"height" db:"height"`
	Allergies  string    `json:"allergies" db:"allergies"`
	Disabled   bool      `json:"disabled" db:"disabled"`
}

// AppointmentWithDoctor is the patient-side listing row: appointment joined
// with its doctor, nested under "doctor".
type AppointmentWithDoctor struct {
	Appointment
	Doctor DoctorInfo `json:"doctor" db:"doctor"`
}

// AppointmentWithPatient is the doctor-side listing row: appointment joined
// with its patient, nested under "user". The asymmetry with the patient-side
// view is intentional and part of the client contract.
type AppointmentWithPatient struct {
	Appointment
	User PatientInfo `json:"user" db:"user"`
}

// DashboardStat is one tile of the doctor dashboard.
type DashboardStat struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// DashboardAppointment is one row of the dashboard's today list.
type DashboardAppointment struct {
	Time    string            `json:"time" db:"time"`
	Patient string            `json:"patient" db:"patient"`
	Status  AppointmentStatus `json:"status" db:"status"`
}

// DashboardSnapshot is the doctor dashboard payload, assembled in one pass.
type DashboardSnapshot struct {
	Stats        []DashboardStat         `json:"stats"`
	Appointments []*DashboardAppointment `json:"appointments"`
}

// JoinResponse carries the room identifier for an online consultation.
type JoinResponse struct {
	RoomID string `json:"room_id"`
}
