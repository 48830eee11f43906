package services

import (
	"context"
	"fmt"
	"slices"

	"cyclesafe-be/models"
)

//go:generate mockgen -source=incidentService.go -destination=mocks/incidentService_mock.go -package=mocks
type IncidentStore interface {
	Insert(ctx context.Context, inc *models.Incident) error
	FindByID(ctx context.Context, id string) (*models.Incident, error)
	List(ctx context.Context, q models.IncidentQuery) ([]*models.Incident, error)
	Delete(ctx context.Context, id string) error
}

// IncidentService owns the incident lifecycle. Expiry is never stored: it is
// derived from ReportedAt and Duration each time an incident is read.
type IncidentService struct {
	store IncidentStore
	clock Clock
}

func NewIncidentService(store IncidentStore, clock Clock) *IncidentService {
	return &IncidentService{store: store, clock: clock}
}

// Report validates the input and persists a new incident with one write.
func (s *IncidentService) Report(ctx context.Context, in models.IncidentInput) (*models.Incident, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	inc := in.Incident(s.clock.now())
	if err := s.store.Insert(ctx, inc); err != nil {
		return nil, fmt.Errorf("report incident: %w", err)
	}
	return inc.Refresh(inc.ReportedAt), nil
}

// List returns the incidents still live at q.AsOf (now when zero), newest first.
func (s *IncidentService) List(ctx context.Context, q models.IncidentQuery) ([]*models.Incident, error) {
	if q.AsOf.IsZero() {
		q.AsOf = s.clock.now()
	}

	found, err := s.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	live := make([]*models.Incident, 0, len(found))
	for _, inc := range found {
		if inc.ActiveAt(q.AsOf) {
			live = append(live, inc.Refresh(q.AsOf))
		}
	}
	slices.SortStableFunc(live, func(a, b *models.Incident) int {
		return b.ReportedAt.Compare(a.ReportedAt)
	})
	return live, nil
}

// Get returns the incident even after it has expired.
func (s *IncidentService) Get(ctx context.Context, id string) (*models.Incident, error) {
	inc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get incident %s: %w", id, err)
	}
	return inc.Refresh(s.clock.now()), nil
}

func (s *IncidentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete incident %s: %w", id, err)
	}
	return nil
}
