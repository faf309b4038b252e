package model

import (
	"github.com/google/uuid"
)

// ReportTypes enumerates the accepted medical report categories.
var ReportTypes = []string{"Reports", "Xray", "City-Scan", "Blood-report", "Other"}

// Report is an uploaded medical document's metadata; the file itself lives
// outside the core and is referenced by Link.
type Report struct {
	Base
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	ReportType string    `db:"report_type" json:"report_type"`
	Link       string    `db:"link" json:"link"`
}

type AddReportRequest struct {
	ReportType string `json:"report_type" binding:"required,oneof=Reports Xray City-Scan Blood-report Other"`
	Link       string `json:"link" binding:"required"`
}
