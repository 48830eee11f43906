package services

import (
	"context"
	"fmt"

	"cyclesafe-be/models"
)

//go:generate mockgen -source=routeService.go -destination=mocks/routeService_mock.go -package=mocks
type RouteStore interface {
	Insert(ctx context.Context, route *models.Route) error
	FindOwned(ctx context.Context, owner, id string) (*models.Route, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Route, error)
	DeleteOwned(ctx context.Context, owner, id string) error
}

// RouteService stores routes for the authenticated owner. The owner is always
// the caller's verified identity.
type RouteService struct {
	store RouteStore
	clock Clock
}

func NewRouteService(store RouteStore, clock Clock) *RouteService {
	return &RouteService{store: store, clock: clock}
}

func (s *RouteService) Create(ctx context.Context, owner string, in models.RouteInput) (*models.Route, error) {
	if owner == "" {
		return nil, models.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	route := in.Route(owner, s.clock.now())
	if err := s.store.Insert(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}
	return route, nil
}

func (s *RouteService) List(ctx context.Context, owner string) ([]*models.Route, error) {
	if owner == "" {
		return nil, models.ErrUnauthorized
	}

	routes, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	owned := make([]*models.Route, 0, len(routes))
	for _, r := range routes {
		if r.Owner == owner {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

// Get fails with models.ErrNotFound both when the route is missing and when it
// belongs to someone else.
func (s *RouteService) Get(ctx context.Context, owner, id string) (*models.Route, error) {
	if owner == "" {
		return nil, models.ErrUnauthorized
	}

	route, err := s.store.FindOwned(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", id, err)
	}
	if route.Owner != owner {
		return nil, fmt.Errorf("get route %s: %w", id, models.ErrNotFound)
	}
	return route, nil
}

func (s *RouteService) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return models.ErrUnauthorized
	}
	if err := s.store.DeleteOwned(ctx, owner, id); err != nil {
		return fmt.Errorf("delete route %s: %w", id, err)
	}
	return nil
}
