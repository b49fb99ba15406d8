package photoqc_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/metadata"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/quality"
	"github.com/andreyxaxa/Photo-QC/internal/testutil"
	"github.com/andreyxaxa/Photo-QC/internal/usecase/photoqc"
	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storageBase = "http://s3.local/photos/"

type fakePhotoRepo struct {
	photos  map[uuid.UUID]entity.Photo
	getErrs []error
	updErrs []error
	updates int
}

func (r *fakePhotoRepo) Create(_ context.Context, p *entity.Photo) error {
	r.photos[p.ID] = *p
	return nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Photo, error) {
	if len(r.getErrs) > 0 {
		err := r.getErrs[0]
		r.getErrs = r.getErrs[1:]
		return nil, err
	}

	p, ok := r.photos[id]
	if !ok {
		return nil, fmt.Errorf("fake - GetByID: %w", errs.ErrRecordNotFound)
	}

	return &p, nil
}

func (r *fakePhotoRepo) UpdateQC(_ context.Context, p *entity.Photo) error {
	if len(r.updErrs) > 0 {
		err := r.updErrs[0]
		r.updErrs = r.updErrs[1:]
		return err
	}
	if _, ok := r.photos[p.ID]; !ok {
		return fmt.Errorf("fake - UpdateQC: %w", errs.ErrRecordNotFound)
	}

	r.updates++
	r.photos[p.ID] = *p

	return nil
}

type fakePropertyRepo struct {
	locations map[uuid.UUID]*entity.PropertyLocation
}

func (r *fakePropertyRepo) GetLocation(_ context.Context, id uuid.UUID) (*entity.PropertyLocation, error) {
	loc, ok := r.locations[id]
	if !ok {
		return nil, fmt.Errorf("fake - GetLocation: %w", errs.ErrRecordNotFound)
	}

	return loc, nil
}

type fakeStorage struct {
	objects   map[string][]byte
	fetchErrs []error
	fetches   int
	storeErr  error
	stored    map[string][]byte
}

func (s *fakeStorage) Upload(context.Context, string, io.Reader, string, int64) error {
	return nil
}

func (s *fakeStorage) Store(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.stored[key] = data

	return s.URL(key), nil
}

func (s *fakeStorage) Fetch(_ context.Context, key string) ([]byte, error) {
	s.fetches++
	if len(s.fetchErrs) > 0 {
		err := s.fetchErrs[0]
		if len(s.fetchErrs) > 1 {
			s.fetchErrs = s.fetchErrs[1:]
		}
		if err != nil {
			return nil, err
		}
	}

	data, ok := s.objects[key]
	if !ok {
		return nil, errs.Permanent(fmt.Errorf("fake - Fetch: %w", errs.ErrObjectNotFound))
	}

	return data, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) URL(key string) string {
	return storageBase + key
}

func (s *fakeStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, storageBase) {
		return "", false
	}

	return strings.TrimPrefix(url, storageBase), true
}

type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	t.calls++
	return f(ctx)
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(bytesource.Source) entity.Metadata {
	panic("corrupt maker note")
}

type env struct {
	photos     *fakePhotoRepo
	properties *fakePropertyRepo
	storage    *fakeStorage
	tx         *fakeTransactor
	uc         *photoqc.PhotoQCUseCase

	photoID    uuid.UUID
	propertyID uuid.UUID
}

func newEnv(t *testing.T, payload []byte) *env {
	t.Helper()

	e := &env{
		photos:     &fakePhotoRepo{photos: map[uuid.UUID]entity.Photo{}},
		properties: &fakePropertyRepo{locations: map[uuid.UUID]*entity.PropertyLocation{}},
		storage:    &fakeStorage{objects: map[string][]byte{}, stored: map[string][]byte{}},
		tx:         &fakeTransactor{},
		photoID:    uuid.New(),
		propertyID: uuid.New(),
	}

	key := "originals/" + e.photoID.String()
	e.storage.objects[key] = payload
	e.photos.photos[e.photoID] = entity.Photo{
		ID:         e.photoID,
		PropertyID: e.propertyID,
		StorageKey: key,
		StorageURL: e.storage.URL(key),
		PhotoType:  entity.PhotoExterior,
		QCStatus:   entity.QCPending,
		CreatedAt:  clock.Add(-5 * time.Minute),
	}
	e.properties.locations[e.propertyID] = location(40.0, -74.0)

	e.uc = e.build(metadata.NewExtractor())

	return e
}

func (e *env) build(extractor interface {
	Extract(bytesource.Source) entity.Metadata
}) *photoqc.PhotoQCUseCase {
	l := logger.New("disabled")

	return photoqc.New(
		e.photos,
		e.properties,
		e.storage,
		e.tx,
		extractor,
		processor.New(),
		quality.New(),
		photoqc.NewValidator(photoqc.WithClock(fixedClock)),
		retry.New(l,
			retry.MaxAttempts(3),
			retry.BaseDelay(time.Millisecond),
			retry.WithSleep(func(context.Context, time.Duration) error { return nil }),
		),
		l,
	)
}

func (e *env) task() dto.Task {
	return dto.Task{PhotoID: e.photoID, StorageURL: e.photos.photos[e.photoID].StorageURL}
}

func (e *env) record() entity.Photo {
	return e.photos.photos[e.photoID]
}

// sharpPhoto is a well exposed, sharp, glare-free JPEG carrying e.
func sharpPhoto(e *testutil.EXIF) []byte {
	jpg := testutil.EncodeJPEG(testutil.Stripes(400, 300, 10, 100, 156))
	if e == nil {
		return jpg
	}

	return testutil.WithEXIF(jpg, testutil.TIFF(*e))
}

func exifAt(at time.Time, lat, lng float64) *testutil.EXIF {
	return &testutil.EXIF{
		DateTimeOriginal: at.Format("2006:01:02 15:04:05"),
		Model:            "Pixel 8",
		Lat:              testutil.Float(lat),
		Lng:              testutil.Float(lng),
	}
}

func TestProcess_Approved(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock.Add(-2*time.Minute), 40.0009, -74.0)))

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
	assert.Equal(t, e.photoID.String(), res.PhotoID)
	assert.Equal(t, photoqc.MessageOK, res.Message)
	assert.False(t, res.Failed())

	rec := e.record()
	assert.Equal(t, entity.QCApproved, rec.QCStatus)
	require.NotNil(t, rec.QCNotes)
	assert.Contains(t, *rec.QCNotes, "QC results:")
	assert.NotContains(t, *rec.QCNotes, "metadata failures")

	require.NotNil(t, rec.CapturedAt)
	assert.Equal(t, clock.Add(-2*time.Minute), *rec.CapturedAt)
	require.NotNil(t, rec.DeviceModel)
	assert.Equal(t, "Pixel 8", *rec.DeviceModel)
	require.NotNil(t, rec.GPSLat)
	assert.InDelta(t, 40.0009, *rec.GPSLat, 1e-6)

	assert.Contains(t, e.storage.stored, photoqc.DerivativeKey(e.photoID))
	assert.Equal(t, 1, e.tx.calls)
}

func TestProcess_NoMetadataRejected(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
	assert.NotEqual(t, photoqc.MessageOK, res.Message)

	rec := e.record()
	assert.Equal(t, entity.QCRejected, rec.QCStatus)
	require.NotNil(t, rec.QCNotes)
	assert.Contains(t, *rec.QCNotes, "Missing capture timestamp metadata")
	assert.Contains(t, *rec.QCNotes, "Missing device model metadata")
	assert.Contains(t, *rec.QCNotes, "Missing GPS metadata")
	assert.Nil(t, rec.CapturedAt)
	assert.Nil(t, rec.DeviceModel)
	assert.Nil(t, rec.GPSLat)
	assert.Nil(t, rec.GPSLng)
}

func TestProcess_FreshnessBoundary(t *testing.T) {
	stale := newEnv(t, sharpPhoto(exifAt(clock.Add(-31*time.Minute), 40.0, -74.0)))
	_, err := stale.uc.Process(context.Background(), stale.task())
	require.NoError(t, err)

	rec := stale.record()
	assert.Equal(t, entity.QCRejected, rec.QCStatus)
	assert.Contains(t, *rec.QCNotes, `metadata failures: ["Capture timestamp is older than 30 minutes"]`)

	edge := newEnv(t, sharpPhoto(exifAt(clock.Add(-30*time.Minute), 40.0, -74.0)))
	_, err = edge.uc.Process(context.Background(), edge.task())
	require.NoError(t, err)

	assert.Equal(t, entity.QCApproved, edge.record().QCStatus)
}

func TestProcess_GeofenceMismatch(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 40.009, -74.0)))

	_, err := e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)

	rec := e.record()
	assert.Equal(t, entity.QCRejected, rec.QCStatus)
	assert.Contains(t, *rec.QCNotes, "Photo GPS mismatch: 1.00km from property")
}

func TestProcess_UnknownPropertySkipsGeofence(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 10, 10)))
	delete(e.properties.locations, e.propertyID)

	_, err := e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)

	assert.Equal(t, entity.QCApproved, e.record().QCStatus)
}

func TestProcess_Idempotent(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock.Add(-2*time.Minute), 40.0009, -74.0)))

	first, err := e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)
	afterFirst := e.record()
	derivative := e.storage.stored[photoqc.DerivativeKey(e.photoID)]

	second, err := e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, e.record())
	assert.Equal(t, derivative, e.storage.stored[photoqc.DerivativeKey(e.photoID)])
	assert.Len(t, e.storage.stored, 1)
	assert.Equal(t, 2, e.photos.updates)
}

func TestProcess_RerunOverwritesMetadata(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 40.0, -74.0)))

	_, err := e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)
	require.NotNil(t, e.record().DeviceModel)

	e.storage.objects[e.record().StorageKey] = sharpPhoto(nil)

	_, err = e.uc.Process(context.Background(), e.task())
	require.NoError(t, err)

	rec := e.record()
	assert.Nil(t, rec.DeviceModel)
	assert.Nil(t, rec.CapturedAt)
	assert.Equal(t, entity.QCRejected, rec.QCStatus)
}

func TestProcess_NotFound(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	missing := uuid.New()

	res, err := e.uc.Process(context.Background(), dto.Task{PhotoID: missing})

	require.NoError(t, err)
	assert.Equal(t, entity.JobNotFound, res.Status)
	assert.Equal(t, missing.String(), res.PhotoID)
	assert.False(t, res.Failed())
	assert.Zero(t, e.storage.fetches)
}

func TestProcess_DeletedBeforePersist(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	e.photos.updErrs = []error{fmt.Errorf("fake: %w", errs.ErrRecordNotFound)}

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobNotFound, res.Status)
}

func TestProcess_TransientFetchRecovers(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 40.0, -74.0)))
	e.storage.fetchErrs = []error{errors.New("connection reset"), errors.New("timeout"), nil}

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
	assert.Equal(t, 3, e.storage.fetches)
	assert.Equal(t, entity.QCApproved, e.record().QCStatus)
}

func TestProcess_TransientFetchExhausted(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	unavailable := errors.New("service unavailable")
	e.storage.fetchErrs = []error{unavailable}

	res, err := e.uc.Process(context.Background(), e.task())

	require.Error(t, err)
	assert.ErrorIs(t, err, unavailable)
	assert.True(t, res.Failed())
	assert.Equal(t, 3, e.storage.fetches)
	assert.Equal(t, entity.QCPending, e.record().QCStatus)
	assert.Nil(t, e.record().QCNotes)
}

func TestProcess_MissingObjectIsPermanent(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	delete(e.storage.objects, e.record().StorageKey)

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "fetch photo")
	assert.Equal(t, 1, e.storage.fetches)
	assert.Equal(t, entity.QCPending, e.record().QCStatus)
}

func TestProcess_TransientPersistFailure(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	down := errors.New("connection refused")
	e.photos.updErrs = []error{down, down, down}

	_, err := e.uc.Process(context.Background(), e.task())

	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, 3, e.tx.calls)
	assert.Equal(t, entity.QCPending, e.record().QCStatus)
}

func TestProcess_Undecodable(t *testing.T) {
	e := newEnv(t, []byte("this is not an image"))

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
	assert.Equal(t, photoqc.MessageUndecodable, res.Message)

	rec := e.record()
	assert.Equal(t, entity.QCRejected, rec.QCStatus)
	assert.Contains(t, *rec.QCNotes, photoqc.IssueUndecodable)
	assert.Empty(t, e.storage.stored)
}

func TestProcess_PanicLeavesPending(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	e.uc = e.build(panickingExtractor{})

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "corrupt maker note")
	assert.Equal(t, entity.QCPending, e.record().QCStatus)
}

func TestProcess_DerivativeFailureDoesNotBlock(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 40.0, -74.0)))
	e.storage.storeErr = errors.New("bucket read-only")

	res, err := e.uc.Process(context.Background(), e.task())

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
	assert.Equal(t, entity.QCApproved, e.record().QCStatus)
}

func TestProcess_StorageKeyFromTaskURL(t *testing.T) {
	e := newEnv(t, sharpPhoto(exifAt(clock, 40.0, -74.0)))
	rec := e.record()
	rec.StorageKey = ""
	e.photos.photos[e.photoID] = rec

	res, err := e.uc.Process(context.Background(), dto.Task{PhotoID: e.photoID, StorageURL: e.storage.URL("originals/" + e.photoID.String())})

	require.NoError(t, err)
	assert.Equal(t, entity.JobCompleted, res.Status)
}

func TestProcess_NoStorageKeyIsPermanent(t *testing.T) {
	e := newEnv(t, sharpPhoto(nil))
	rec := e.record()
	rec.StorageKey = ""
	rec.StorageURL = ""
	e.photos.photos[e.photoID] = rec

	res, err := e.uc.Process(context.Background(), dto.Task{PhotoID: e.photoID, StorageURL: "ftp://elsewhere/x"})

	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Zero(t, e.storage.fetches)
}
