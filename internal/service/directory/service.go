package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/geo"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

// fetchConcurrency bounds the per-doctor fan-out so a large directory does
// not open one connection per record.
const fetchConcurrency = 8

type Service struct {
	repo    repository.DoctorRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.DoctorRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// ListDoctors returns the directory filtered by the search term and, when a
// reference coordinate is given, ranked by distance to it.
//
// Records are fetched one at a time through the contact-masking accessor;
// an individual fetch failure drops that doctor from the result rather than
// failing the whole listing. Only a failure of the id listing itself is
// surfaced as an error.
func (s *Service) ListDoctors(ctx context.Context, userID uuid.UUID, filter model.DoctorFilter) ([]*model.RankedDoctor, error) {
	if userID == uuid.Nil {
		return nil, apperrors.AuthRequired(nil)
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.DirectorySearches.Inc()
			s.metrics.DirectoryFetchLatency.Observe(time.Since(start).Seconds())
		}
	}()

	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, apperrors.Backend(fmt.Errorf("failed to list doctors: %w", err))
	}

	// Fan out the masked per-record fetches; the slice keeps directory
	// order so ties rank deterministically afterwards.
	fetched := make([]*model.DoctorInfo, len(ids))
	var wg sync.WaitGroup
	sem := make(chan struct{}, fetchConcurrency)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			info, err := s.repo.GetInfo(ctx, id, userID)
			if err != nil {
				log.Warn().Err(err).Str("doctor_id", id.String()).Msg("dropping doctor from results")
				if s.metrics != nil {
					s.metrics.DirectoryFetchFailed.Inc()
				}
				return
			}
			fetched[i] = info
		}(i, id)
	}
	wg.Wait()

	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	doctors := make([]*model.RankedDoctor, 0, len(fetched))
	for _, info := range fetched {
		if info == nil {
			continue
		}
		if term != "" && !matchesTerm(info, term) {
			continue
		}
		ranked := &model.RankedDoctor{DoctorInfo: *info}
		if filter.Reference != nil {
			distance := geo.DistanceKm(*filter.Reference, info.Coordinate())
			ranked.DistanceKm = &distance
		}
		doctors = append(doctors, ranked)
	}

	if filter.Reference != nil {
		sort.SliceStable(doctors, func(i, j int) bool {
			return *doctors[i].DistanceKm < *doctors[j].DistanceKm
		})
	}

	s.logContactViews(ctx, userID, doctors)
	return doctors, nil
}

func matchesTerm(info *model.DoctorInfo, term string) bool {
	return strings.Contains(strings.ToLower(info.Name), term) ||
		strings.Contains(strings.ToLower(info.Specialty), term) ||
		strings.Contains(strings.ToLower(info.Address), term)
}

// logContactViews records that unmasked contact details were handed out.
// Best effort; a failed audit write never fails the search.
func (s *Service) logContactViews(ctx context.Context, userID uuid.UUID, doctors []*model.RankedDoctor) {
	for _, d := range doctors {
		if !d.CanViewContact {
			continue
		}
		if err := s.repo.LogContactAccess(ctx, d.ID, userID, "directory_view"); err != nil {
			log.Warn().Err(err).Str("doctor_id", d.ID.String()).Msg("failed to log contact access")
		}
	}
}
