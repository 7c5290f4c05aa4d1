package worker

import (
	"context"
	"time"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/service/outbreak"
	"github.com/healthmate/healthmate-api/pkg/logger"
	"github.com/healthmate/healthmate-api/pkg/messaging"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

type AlertPublisherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// AlertPublisher moves newly reported outbreaks onto the realtime channel.
// It polls for active rows not yet published, publishes each to the broker,
// and marks them so a row is announced at most once per publisher.
type AlertPublisher struct {
	repo    repository.OutbreakRepository
	broker  messaging.Broker
	config  AlertPublisherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewAlertPublisher(
	repo repository.OutbreakRepository,
	broker messaging.Broker,
	config AlertPublisherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *AlertPublisher {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 15 * time.Second
	}
	return &AlertPublisher{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *AlertPublisher) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbreak alert publisher")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping outbreak alert publisher")
			return
		case <-ticker.C:
			p.publishPending(ctx)
		}
	}
}

func (p *AlertPublisher) publishPending(ctx context.Context) {
	pending, err := p.repo.ListUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error(err, "failed to list unpublished outbreaks")
		return
	}

	for _, o := range pending {
		alert := &model.OutbreakAlert{
			ID:          o.ID,
			DiseaseName: o.DiseaseName,
			Location:    o.Location,
			Severity:    o.Severity,
			Description: o.Description,
			Precautions: o.Precautions,
			ReportedAt:  o.ReportedAt,
		}
		if err := p.broker.Publish(ctx, outbreak.AlertChannel, alert); err != nil {
			p.logger.Error(err, "failed to publish outbreak alert", "outbreak_id", o.ID.String())
			if p.metrics != nil {
				p.metrics.OutbreakAlertsFailed.Inc()
			}
			continue
		}
		if err := p.repo.MarkPublished(ctx, o.ID); err != nil {
			// Leaving the row unmarked means it may be published again
			// next tick; subscribers must tolerate duplicates.
			p.logger.Error(err, "failed to mark outbreak published", "outbreak_id", o.ID.String())
			continue
		}
		if p.metrics != nil {
			p.metrics.OutbreakAlertsPublished.Inc()
		}
	}
}
