package worker

import (
	"context"
	"time"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/pkg/logger"
)

const (
	alertRetention  = 7 * 24 * time.Hour
	refreshInterval = 12 * time.Hour
)

// RefreshJob keeps the outbreak table current: alerts older than a week are
// deactivated and, at most once a day, a fresh batch from the configured
// feed is inserted. The sample feed stands in for a WHO/CDC pull.
type RefreshJob struct {
	repo   repository.OutbreakRepository
	feed   func() []*model.DiseaseOutbreak
	logger *logger.Logger
}

func NewRefreshJob(repo repository.OutbreakRepository, logger *logger.Logger) *RefreshJob {
	return &RefreshJob{
		repo:   repo,
		feed:   sampleFeed,
		logger: logger,
	}
}

func (j *RefreshJob) Start(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	j.logger.Info("starting outbreak refresh job")
	j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("stopping outbreak refresh job")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}

func (j *RefreshJob) Run(ctx context.Context) {
	deactivated, err := j.repo.DeactivateOlderThan(ctx, time.Now().Add(-alertRetention))
	if err != nil {
		j.logger.Error(err, "failed to deactivate stale outbreaks")
	} else if deactivated > 0 {
		j.logger.Info("deactivated stale outbreaks", "count", deactivated)
	}

	// Insert the day's batch only once.
	today := truncateToDay(time.Now())
	hasToday, err := j.repo.HasReportsSince(ctx, today)
	if err != nil {
		j.logger.Error(err, "failed to check for existing reports")
		return
	}
	if hasToday {
		return
	}

	for _, o := range j.feed() {
		if err := j.repo.Create(ctx, o); err != nil {
			j.logger.Error(err, "failed to insert outbreak", "disease", o.DiseaseName)
		}
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sampleFeed() []*model.DiseaseOutbreak {
	now := time.Now()
	return []*model.DiseaseOutbreak{
		{
			DiseaseName: "Seasonal Flu",
			Severity:    model.OutbreakSeverityModerate,
			Location:    "Northern Region",
			Description: "Increase in seasonal influenza cases reported in northern areas.",
			Latitude:    28.7041,
			Longitude:   77.1025,
			Precautions: []string{
				"Get vaccinated",
				"Wash hands frequently",
				"Avoid close contact with sick individuals",
				"Stay home if you feel unwell",
			},
			Source:     "Regional Health Department",
			IsActive:   true,
			ReportedAt: now,
		},
		{
			DiseaseName: "Dengue Outbreak",
			Severity:    model.OutbreakSeverityHigh,
			Location:    "Coastal Areas",
			Description: "Significant increase in dengue cases due to recent rainfall.",
			Latitude:    19.0760,
			Longitude:   72.8777,
			Precautions: []string{
				"Use mosquito repellent",
				"Remove standing water",
				"Wear long-sleeved clothing",
				"Seek medical attention for fever",
			},
			Source:     "Municipal Health Authority",
			IsActive:   true,
			ReportedAt: now,
		},
	}
}
