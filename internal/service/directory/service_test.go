package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type fakeDoctorRepo struct {
	mu          sync.Mutex
	doctors     []*model.DoctorInfo
	listErr     error
	failFetchOf map[uuid.UUID]error
	accessLog   []uuid.UUID
}

func (f *fakeDoctorRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]uuid.UUID, len(f.doctors))
	for i, d := range f.doctors {
		ids[i] = d.ID
	}
	return ids, nil
}

func (f *fakeDoctorRepo) GetInfo(ctx context.Context, doctorID, userID uuid.UUID) (*model.DoctorInfo, error) {
	if err, ok := f.failFetchOf[doctorID]; ok {
		return nil, err
	}
	for _, d := range f.doctors {
		if d.ID == doctorID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDoctorRepo) LogContactAccess(ctx context.Context, doctorID, userID uuid.UUID, accessType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessLog = append(f.accessLog, doctorID)
	return nil
}

func newDoctor(name, specialty string, lat, lng float64) *model.DoctorInfo {
	return &model.DoctorInfo{
		ID:        uuid.New(),
		Name:      name,
		Specialty: specialty,
		Address:   "Clinic Road",
		Latitude:  lat,
		Longitude: lng,
	}
}

func TestListDoctorsRequiresAuth(t *testing.T) {
	svc := NewService(&fakeDoctorRepo{}, nil)

	_, err := svc.ListDoctors(context.Background(), uuid.Nil, model.DoctorFilter{})
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthRequired))
}

func TestListDoctorsBackendFailure(t *testing.T) {
	repo := &fakeDoctorRepo{listErr: errors.New("connection refused")}
	svc := NewService(repo, nil)

	_, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{})
	assert.True(t, apperrors.Is(err, apperrors.ErrBackend))
}

func TestListDoctorsRankedByDistance(t *testing.T) {
	near := newDoctor("Dr. Near", "cardiology", 19.08, 72.88)
	mid := newDoctor("Dr. Mid", "cardiology", 19.20, 72.90)
	far := newDoctor("Dr. Far", "cardiology", 28.70, 77.10)

	repo := &fakeDoctorRepo{doctors: []*model.DoctorInfo{far, near, mid}}
	svc := NewService(repo, nil)

	ref := &model.Coordinate{Latitude: 19.0760, Longitude: 72.8777}
	doctors, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{Reference: ref})
	require.NoError(t, err)
	require.Len(t, doctors, 3)

	assert.Equal(t, "Dr. Near", doctors[0].Name)
	assert.Equal(t, "Dr. Mid", doctors[1].Name)
	assert.Equal(t, "Dr. Far", doctors[2].Name)
	for _, d := range doctors {
		require.NotNil(t, d.DistanceKm)
	}
	assert.LessOrEqual(t, *doctors[0].DistanceKm, *doctors[1].DistanceKm)
}

func TestListDoctorsNoReferenceKeepsDirectoryOrder(t *testing.T) {
	a := newDoctor("Dr. A", "dermatology", 19.0, 72.8)
	b := newDoctor("Dr. B", "dermatology", 20.0, 73.0)

	repo := &fakeDoctorRepo{doctors: []*model.DoctorInfo{a, b}}
	svc := NewService(repo, nil)

	doctors, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. A", doctors[0].Name)
	assert.Equal(t, "Dr. B", doctors[1].Name)
	assert.Nil(t, doctors[0].DistanceKm)
}

func TestListDoctorsSearchTerm(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: []*model.DoctorInfo{
		newDoctor("Dr. Asha Rao", "cardiology", 19.0, 72.8),
		newDoctor("Dr. Vikram Shah", "dermatology", 19.1, 72.9),
	}}
	svc := NewService(repo, nil)

	doctors, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{SearchTerm: "CARDIO"})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Asha Rao", doctors[0].Name)
}

func TestListDoctorsDropsFailedFetches(t *testing.T) {
	ok := newDoctor("Dr. OK", "cardiology", 19.0, 72.8)
	broken := newDoctor("Dr. Broken", "cardiology", 19.1, 72.9)

	repo := &fakeDoctorRepo{
		doctors:     []*model.DoctorInfo{ok, broken},
		failFetchOf: map[uuid.UUID]error{broken.ID: errors.New("timeout")},
	}
	svc := NewService(repo, nil)

	doctors, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. OK", doctors[0].Name)
}

func TestListDoctorsAuditsContactViews(t *testing.T) {
	visible := newDoctor("Dr. Visible", "cardiology", 19.0, 72.8)
	phone := "+911234567890"
	visible.Phone = &phone
	visible.CanViewContact = true
	masked := newDoctor("Dr. Masked", "cardiology", 19.1, 72.9)

	repo := &fakeDoctorRepo{doctors: []*model.DoctorInfo{visible, masked}}
	svc := NewService(repo, nil)

	doctors, err := svc.ListDoctors(context.Background(), uuid.New(), model.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 2)

	assert.Equal(t, []uuid.UUID{visible.ID}, repo.accessLog)
	for _, d := range doctors {
		if !d.CanViewContact {
			assert.Nil(t, d.Phone)
			assert.Nil(t, d.Email)
		}
	}
}
