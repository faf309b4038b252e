package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
)

// Service handles medical report metadata. Files live in external storage;
// only the link is recorded here.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req *model.AddReportRequest) (*model.Report, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Report, error)
}

type service struct {
	reportRepo repository.ReportRepository
}

func NewService(reportRepo repository.ReportRepository) Service {
	return &service{reportRepo: reportRepo}
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req *model.AddReportRequest) (*model.Report, error) {
	report := &model.Report{
		UserID:     userID,
		ReportType: req.ReportType,
		Link:       req.Link,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return report, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Report, error) {
	reports, err := s.reportRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if reports == nil {
		reports = []*model.Report{}
	}
	return reports, nil
}
