package outbreak

import (
	"context"
	"fmt"
	"sort"

	"github.com/healthmate/healthmate-api/internal/geo"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

// AlertChannel is the broker channel carrying new outbreak alerts.
const AlertChannel = "outbreak_alerts"

type Service struct {
	repo repository.OutbreakRepository
}

func NewService(repo repository.OutbreakRepository) *Service {
	return &Service{repo: repo}
}

// ActiveOutbreak is an outbreak annotated with the distance to the caller's
// reference coordinate, when one was given.
type ActiveOutbreak struct {
	*model.DiseaseOutbreak
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListActive returns currently active outbreaks, nearest first when a
// reference coordinate is supplied.
func (s *Service) ListActive(ctx context.Context, reference *model.Coordinate) ([]*ActiveOutbreak, error) {
	outbreaks, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbreaks: %w", err)
	}

	active := make([]*ActiveOutbreak, 0, len(outbreaks))
	for _, o := range outbreaks {
		entry := &ActiveOutbreak{DiseaseOutbreak: o}
		if reference != nil {
			distance := geo.DistanceKm(*reference, model.Coordinate{Latitude: o.Latitude, Longitude: o.Longitude})
			entry.DistanceKm = &distance
		}
		active = append(active, entry)
	}

	if reference != nil {
		sort.SliceStable(active, func(i, j int) bool {
			return *active[i].DistanceKm < *active[j].DistanceKm
		})
	}
	return active, nil
}

// Report records a new outbreak. The alert worker picks it up and publishes
// it to the realtime channel.
func (s *Service) Report(ctx context.Context, outbreak *model.DiseaseOutbreak) error {
	outbreak.IsActive = true
	outbreak.Published = false
	if err := s.repo.Create(ctx, outbreak); err != nil {
		return fmt.Errorf("failed to report outbreak: %w", err)
	}
	return nil
}
