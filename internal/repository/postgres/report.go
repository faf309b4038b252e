package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, user_id, report_type, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		report.ReportType,
		report.Link,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *reportRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Report, error) {
	query := `
		SELECT id, user_id, report_type, link, created_at, updated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var reports []*model.Report
	if err := r.db.SelectContext(ctx, &reports, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
