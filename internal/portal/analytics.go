package portal

import (
	"context"
	"net/http"

	"github.com/BradenHooton/folio/internal/models"
)

type AnalyticsService struct {
	api API
}

func NewAnalyticsService(api API) *AnalyticsService {
	return &AnalyticsService{api: api}
}

// AuthorStats fetches the signed-in author's dashboard figures
func (s *AnalyticsService) AuthorStats(ctx context.Context) (*models.AuthorStats, error) {
	var stats models.AuthorStats
	if err := s.api.Do(ctx, http.MethodGet, "/api/analytics/author", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
