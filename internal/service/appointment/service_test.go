package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.UserID == userID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeAppointmentRepo) {
	repo := newFakeAppointmentRepo()
	return NewService(repo, nil, nil), repo
}

func createScheduled(t *testing.T, svc *Service, userID uuid.UUID) *model.Appointment {
	t.Helper()
	apt, err := svc.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     time.Now().AddDate(0, 0, 7),
		Time:     "10:30",
	})
	require.NoError(t, err)
	return apt
}

func TestCreateAppointment(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	apt := createScheduled(t, svc, userID)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, userID, apt.UserID)
}

func TestCreateAppointmentRejectsPastDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     time.Now().AddDate(0, 0, -1),
		Time:     "10:30",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetAppointmentOwnership(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	apt := createScheduled(t, svc, owner)

	_, err := svc.GetAppointment(context.Background(), uuid.New(), apt.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	got, err := svc.GetAppointment(context.Background(), owner, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, got.ID)
}

func TestUpdateAppointmentStatusTransitions(t *testing.T) {
	confirmed := model.AppointmentStatusConfirmed
	completed := model.AppointmentStatusCompleted
	cancelled := model.AppointmentStatusCancelled

	t.Run("scheduled to confirmed", func(t *testing.T) {
		svc, _ := newTestService()
		userID := uuid.New()
		apt := createScheduled(t, svc, userID)

		updated, err := svc.UpdateAppointment(context.Background(), userID, apt.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, confirmed, updated.Status)
	})

	t.Run("scheduled to completed is invalid", func(t *testing.T) {
		svc, _ := newTestService()
		userID := uuid.New()
		apt := createScheduled(t, svc, userID)

		_, err := svc.UpdateAppointment(context.Background(), userID, apt.ID, &model.UpdateAppointmentRequest{Status: &completed})
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		svc, _ := newTestService()
		userID := uuid.New()
		apt := createScheduled(t, svc, userID)

		got, err := svc.CancelAppointment(context.Background(), userID, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, cancelled, got.Status)

		_, err = svc.UpdateAppointment(context.Background(), userID, apt.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("confirmed to completed", func(t *testing.T) {
		svc, _ := newTestService()
		userID := uuid.New()
		apt := createScheduled(t, svc, userID)

		_, err := svc.UpdateAppointment(context.Background(), userID, apt.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
		require.NoError(t, err)

		updated, err := svc.UpdateAppointment(context.Background(), userID, apt.ID, &model.UpdateAppointmentRequest{Status: &completed})
		require.NoError(t, err)
		assert.Equal(t, completed, updated.Status)
	})
}

func TestDeleteAppointmentOnlyWhenCancelled(t *testing.T) {
	svc, repo := newTestService()
	userID := uuid.New()
	apt := createScheduled(t, svc, userID)

	err := svc.DeleteAppointment(context.Background(), userID, apt.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.CancelAppointment(context.Background(), userID, apt.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(context.Background(), userID, apt.ID))
	assert.Empty(t, repo.appointments)
}
