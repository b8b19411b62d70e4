package portal

import (
	"context"
	"net/http"

	"github.com/BradenHooton/folio/internal/models"
)

const reportsBase = "/api/reports"

type ReportService struct {
	api API
}

func NewReportService(api API) *ReportService {
	return &ReportService{api: api}
}

func (s *ReportService) Reports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := s.api.Do(ctx, http.MethodGet, reportsBase, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve closes a report with dismiss, remove or warn
func (s *ReportService) Resolve(ctx context.Context, id, action string) error {
	req := models.ResolveRequest{Action: action}
	if err := validate(req); err != nil {
		return err
	}
	path, err := itemPath(reportsBase, id, "resolve")
	if err != nil {
		return err
	}
	return s.api.Do(ctx, http.MethodPost, path, req, nil)
}

func (s *ReportService) Queue() *Queue[models.Report] {
	return NewQueue(s.Reports, s.Resolve)
}
