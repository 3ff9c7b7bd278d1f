package app

import (
	"context"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
)

type PanelBackend interface {
	Health(ctx context.Context) (model.Opaque, error)
	SystemStatus(ctx context.Context, token string) (model.Opaque, error)
	FAQ(ctx context.Context, token string) (model.FAQList, error)
	MyFeedback(ctx context.Context, token string) (*model.FeedbackHistory, error)
	FeedbackStats(ctx context.Context, token string) (*model.FeedbackStats, error)
}

// PanelService serves the chat page's side panels from the context's cached
// slots, fetching when a slot is empty or a refresh is asked for.
type PanelService struct {
	backend PanelBackend
}

// SystemState is the online/offline tile plus whatever the backend reports.
type SystemState struct {
	Online      bool         `json:"online"`
	Health      model.Opaque `json:"health,omitempty"`
	System      model.Opaque `json:"system,omitempty"`
	HealthError string       `json:"health_error,omitempty"`
	SystemError string       `json:"system_error,omitempty"`
}

func NewPanelService(backend PanelBackend) *PanelService {
	return &PanelService{backend: backend}
}

// Status is never cached; it is the liveness tile.
func (s *PanelService) Status(ctx context.Context, token string) SystemState {
	var state SystemState
	health, err := s.backend.Health(ctx)
	if err != nil {
		state.HealthError = err.Error()
		return state
	}
	state.Online = true
	state.Health = health

	system, err := s.backend.SystemStatus(ctx, token)
	if err != nil {
		state.SystemError = err.Error()
		return state
	}
	state.System = system
	return state
}

func (s *PanelService) FAQ(ctx context.Context, dc *dashboard.Context, token string, refresh bool) (model.FAQList, error) {
	if refresh {
		dc.Panels.FAQ = nil
	}
	if dc.Panels.FAQ != nil {
		return *dc.Panels.FAQ, nil
	}
	faqs, err := s.backend.FAQ(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Panels.FAQ = &faqs
	return faqs, nil
}

func (s *PanelService) MyFeedback(ctx context.Context, dc *dashboard.Context, token string, refresh bool) (*model.FeedbackHistory, error) {
	if refresh {
		dc.Panels.MyFeedback = nil
	}
	if dc.Panels.MyFeedback != nil {
		return dc.Panels.MyFeedback, nil
	}
	history, err := s.backend.MyFeedback(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Panels.MyFeedback = history
	return history, nil
}

func (s *PanelService) FeedbackStats(ctx context.Context, dc *dashboard.Context, token string, refresh bool) (*model.FeedbackStats, error) {
	if refresh {
		dc.Panels.FeedbackStats = nil
	}
	if dc.Panels.FeedbackStats != nil {
		return dc.Panels.FeedbackStats, nil
	}
	stats, err := s.backend.FeedbackStats(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Panels.FeedbackStats = stats
	return stats, nil
}
