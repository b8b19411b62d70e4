package portal

import (
	"context"
	"net/http"
	"strings"

	"github.com/BradenHooton/folio/internal/models"
)

const moderationBase = "/api/moderation"

type ModerationService struct {
	api API
}

func NewModerationService(api API) *ModerationService {
	return &ModerationService{api: api}
}

// PendingItems lists content waiting for review
func (s *ModerationService) PendingItems(ctx context.Context) ([]models.ModerationItem, error) {
	var items []models.ModerationItem
	if err := s.api.Do(ctx, http.MethodGet, moderationBase+"/pending", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ModerationService) Approve(ctx context.Context, id string) error {
	path, err := itemPath(moderationBase, id, "approve")
	if err != nil {
		return err
	}
	return s.api.Do(ctx, http.MethodPost, path, nil, nil)
}

func (s *ModerationService) Reject(ctx context.Context, id, reason string) error {
	req := models.RejectRequest{Reason: strings.TrimSpace(reason)}
	if err := validate(req); err != nil {
		return err
	}
	path, err := itemPath(moderationBase, id, "reject")
	if err != nil {
		return err
	}
	return s.api.Do(ctx, http.MethodPost, path, req, nil)
}

// Queue returns a moderation queue; actions are "approve" or
// "reject:<reason>"
func (s *ModerationService) Queue() *Queue[models.ModerationItem] {
	return NewQueue(s.PendingItems, func(ctx context.Context, id, action string) error {
		if reason, ok := strings.CutPrefix(action, "reject:"); ok {
			return s.Reject(ctx, id, reason)
		}
		if action == "approve" {
			return s.Approve(ctx, id)
		}
		return &UnknownActionError{Action: action}
	})
}
