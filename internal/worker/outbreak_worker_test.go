package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/outbreak"
	"github.com/healthmate/healthmate-api/pkg/logger"
)

type fakeOutbreakRepo struct {
	outbreaks   []*model.DiseaseOutbreak
	markErr     error
	hasToday    bool
	deactivated int64
}

func (f *fakeOutbreakRepo) Create(ctx context.Context, o *model.DiseaseOutbreak) error {
	o.ID = uuid.New()
	f.outbreaks = append(f.outbreaks, o)
	return nil
}

func (f *fakeOutbreakRepo) ListActive(ctx context.Context) ([]*model.DiseaseOutbreak, error) {
	var out []*model.DiseaseOutbreak
	for _, o := range f.outbreaks {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOutbreakRepo) ListUnpublished(ctx context.Context, limit int) ([]*model.DiseaseOutbreak, error) {
	var out []*model.DiseaseOutbreak
	for _, o := range f.outbreaks {
		if o.IsActive && !o.Published {
			out = append(out, o)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutbreakRepo) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, o := range f.outbreaks {
		if o.ID == id {
			o.Published = true
		}
	}
	return nil
}

func (f *fakeOutbreakRepo) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, o := range f.outbreaks {
		if o.IsActive && o.ReportedAt.Before(cutoff) {
			o.IsActive = false
			n++
		}
	}
	f.deactivated = n
	return n, nil
}

func (f *fakeOutbreakRepo) HasReportsSince(ctx context.Context, since time.Time) (bool, error) {
	if f.hasToday {
		return true, nil
	}
	for _, o := range f.outbreaks {
		if !o.ReportedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBroker) Close() error { return nil }

func TestAlertPublisherPublishesPending(t *testing.T) {
	repo := &fakeOutbreakRepo{outbreaks: []*model.DiseaseOutbreak{
		{ID: uuid.New(), DiseaseName: "Dengue Outbreak", IsActive: true, ReportedAt: time.Now()},
		{ID: uuid.New(), DiseaseName: "Seasonal Flu", IsActive: true, Published: true, ReportedAt: time.Now()},
	}}
	broker := &fakeBroker{}
	p := NewAlertPublisher(repo, broker, AlertPublisherConfig{}, logger.NewLogger(nil), nil)

	p.publishPending(context.Background())

	// Only the unpublished row goes out, and it is marked afterwards.
	require.Len(t, broker.published, 1)
	assert.Equal(t, outbreak.AlertChannel, broker.published[0])
	assert.True(t, repo.outbreaks[0].Published)
}

func TestAlertPublisherLeavesRowOnPublishFailure(t *testing.T) {
	repo := &fakeOutbreakRepo{outbreaks: []*model.DiseaseOutbreak{
		{ID: uuid.New(), DiseaseName: "Dengue Outbreak", IsActive: true, ReportedAt: time.Now()},
	}}
	broker := &fakeBroker{err: errors.New("redis down")}
	p := NewAlertPublisher(repo, broker, AlertPublisherConfig{}, logger.NewLogger(nil), nil)

	p.publishPending(context.Background())

	// Row stays unpublished so the next tick retries it.
	assert.False(t, repo.outbreaks[0].Published)
}

func TestRefreshJobDeactivatesStaleAndSeedsDaily(t *testing.T) {
	stale := &model.DiseaseOutbreak{
		ID:          uuid.New(),
		DiseaseName: "Old Outbreak",
		IsActive:    true,
		ReportedAt:  time.Now().Add(-8 * 24 * time.Hour),
	}
	repo := &fakeOutbreakRepo{outbreaks: []*model.DiseaseOutbreak{stale}}
	j := NewRefreshJob(repo, logger.NewLogger(nil))

	j.Run(context.Background())

	assert.False(t, stale.IsActive)
	assert.Equal(t, int64(1), repo.deactivated)

	// The day's feed was inserted on top of the stale row.
	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRefreshJobSkipsFeedWhenTodayAlreadySeeded(t *testing.T) {
	repo := &fakeOutbreakRepo{outbreaks: []*model.DiseaseOutbreak{
		{ID: uuid.New(), DiseaseName: "Seasonal Flu", IsActive: true, ReportedAt: time.Now()},
	}}
	j := NewRefreshJob(repo, logger.NewLogger(nil))

	j.Run(context.Background())

	assert.Len(t, repo.outbreaks, 1)
}
