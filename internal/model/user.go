package model

import (
	"time"

	"github.com/google/uuid"
)

// User role constants
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Address is the structured postal address attached to every user.
type Address struct {
	Street string `json:"street" db:"street"`
	City   string `json:"city" db:"city"`
	State  string `json:"state" db:"state"`
	Zip    string `json:"zip" db:"zip"`
}

// User represents a system user. Role-specific fields live in the
// PatientProfile/DoctorProfile record joined 1:1 by user id.
type User struct {
	Base
	FirstName    string   `json:"first_name" db:"first_name"`
	LastName     string   `json:"last_name" db:"last_name"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         string   `json:"role" db:"role"`
	Avatar       string   `json:"avatar" db:"avatar"`
	Phone        string   `json:"phone" db:"phone"`
	Address      Address  `json:"address" db:"address"`
	Gender       string   `json:"gender" db:"gender"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
}

// HasLocation reports whether the user has a complete point geolocation on file.
func (u *User) HasLocation() bool {
	return u.Longitude != nil && u.Latitude != nil
}

// FullName joins the name fields for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PatientProfile holds patient-specific fields, created together with the User.
type PatientProfile struct {
	Base
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	DOB        time.Time `json:"dob" db:"dob"`
	BloodGroup string    `json:"blood_group" db:"blood_group"`
	Weight     float64   `json:"weight" db:"weight"`
	Height     float64   `json:"height" db:"height"`
	Allergies  string    `json:"allergies" db:"allergies"`
	Disabled   bool      `json:"disabled" db:"disabled"`
}

// DoctorProfile holds doctor-specific fields, created together with the User.
// IsAvailable is consulted by nearby-doctor discovery.
type DoctorProfile struct {
	Base
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Degree         string    `json:"degree" db:"degree"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	WorkingPlace   string    `json:"working_place" db:"working_place"`
	IsAvailable    bool      `json:"is_available" db:"is_available"`
	Timeslot       string    `json:"timeslot,omitempty" db:"timeslot"`
}

// RegisterRequest carries registration input for both roles; the
// role-specific block matching Role must be present.
type RegisterRequest struct {
	FirstName string   `json:"first_name" binding:"required"`
	LastName  string   `json:"last_name" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	Role      string   `json:"role" binding:"required,oneof=patient doctor"`
	Phone     string   `json:"phone" binding:"required"`
	Address   Address  `json:"address" binding:"required"`
	Gender    string   `json:"gender" binding:"required,oneof=Male Female Other"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`

	// Patient fields
	DOB        *time.Time `json:"dob"`
	BloodGroup string     `json:"blood_group"`
	Weight     float64    `json:"weight"`
	Height     float64    `json:"height"`
	Allergies  string     `json:"allergies"`
	Disabled   bool       `json:"disabled"`

	// Doctor fields
	Degree         string `json:"degree"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	WorkingPlace   string `json:"working_place"`
	IsAvailable    *bool  `json:"is_available"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Profile is the merged User + role-profile view returned to the client.
type Profile struct {
	User
	Patient *PatientProfile `json:"patient,omitempty"`
	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
}

// DoctorDirectoryEntry is the public directory row: user identity flattened
// with doctor profile fields, credentials stripped.
type DoctorDirectoryEntry struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Avatar         string    `json:"avatar" db:"avatar"`
	Phone          string    `json:"phone" db:"phone"`
	Address        Address   `json:"address" db:"address"`
	Gender         string    `json:"gender" db:"gender"`
	Degree         string    `json:"degree" db:"degree"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	WorkingPlace   string    `json:"working_place" db:"working_place"`
	IsAvailable    bool      `json:"is_available" db:"is_available"`
}

// NearbyDoctor is one row of the nearby-doctor discovery result.
type NearbyDoctor struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	Avatar         string    `json:"avatar" db:"avatar"`
	Address        Address   `json:"address" db:"address"`
	DistanceKm     float64   `json:"distance_km" db:"distance_km"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	WorkingPlace   string    `json:"working_place" db:"working_place"`
}

// NearbyDoctorsResult wraps discovery output with its count and radius label.
type NearbyDoctorsResult struct {
	Doctors      []*NearbyDoctor `json:"doctors"`
	TotalDoctors int             `json:"total_doctors"`
	MaxDistance  string          `json:"max_distance"`
}
