package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/BradenHooton/folio/internal/models"
)

const ratesBase = "/api/conversion-rates"

type RateService struct {
	api API
}

func NewRateService(api API) *RateService {
	return &RateService{api: api}
}

func (s *RateService) Rates(ctx context.Context) ([]models.ConversionRate, error) {
	var rates []models.ConversionRate
	if err := s.api.Do(ctx, http.MethodGet, ratesBase, nil, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *RateService) CreateRate(ctx context.Context, req models.RateRequest) (*models.ConversionRate, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := validate(req); err != nil {
		return nil, err
	}
	var rate models.ConversionRate
	if err := s.api.Do(ctx, http.MethodPost, ratesBase, req, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *RateService) UpdateRate(ctx context.Context, id string, req models.RateRequest) (*models.ConversionRate, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: id is required", ratesBase)
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := validate(req); err != nil {
		return nil, err
	}
	var rate models.ConversionRate
	if err := s.api.Do(ctx, http.MethodPut, ratesBase+"/"+url.PathEscape(id), req, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}
