package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/geocoding"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, addr geocoding.Address) (*geocoding.Coordinates, error) {
	args := m.Called(ctx, addr)
	coords, _ := args.Get(0).(*geocoding.Coordinates)
	return coords, args.Error(1)
}

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	return m.Called(ctx, event).Error(0)
}

// zipArchive builds a base64 encoded zip holding the given files.
func zipArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

const toponymCSV = "\ufeffoblast;admin_region_old;admin_region_new;gromada;community;street_type;street_name;latitude;longitude\n" +
	"Київська;;;Київська;Київ;вулиця;Хрещатик;50,4474;30,5223\n" +
	"Київська;;;Київська;Київ;вулиця;Хрещатик;;\n" +
	"Київська;;;Київська;Київ;вулиця;Володимирська;;\n" +
	"Львівська;;;Львівська;Львів;площа;Ринок;;\n" +
	"Львівська;;;Львівська;Львів;вулиця;;;\n" +
	"Одеська;;;Одеська;Одеса;вулиця;Дерибасівська;;\n"

type toponymFixture struct {
	*fixture
	geocoder *mockGeocoder
	tasks    *task.MemoryTaskStore
}

func newToponymService(t *testing.T, emitter events.EventEmitter) (service.ToponymService, *toponymFixture) {
	t.Helper()
	tf := &toponymFixture{fixture: newFixture(t), geocoder: &mockGeocoder{}, tasks: task.NewMemoryTaskStore()}
	svc, err := service.NewToponymService(service.ToponymServiceDeps{
		Store:    tf.w,
		Blobs:    tf.blobs,
		Geocoder: tf.geocoder,
		Emitter:  emitter,
		Tasks:    tf.tasks,
	}, testLogger())
	require.NoError(t, err)
	return svc, tf
}

func (tf *toponymFixture) expectGeocoding() {
	tf.geocoder.On("Geocode", mock.Anything, geocoding.Address{
		Oblast: "Львівська", Community: "Львів", StreetType: "площа", StreetName: "Ринок",
	}).Return(&geocoding.Coordinates{Latitude: 49.8419, Longitude: 24.0316}, nil).Once()
	tf.geocoder.On("Geocode", mock.Anything, geocoding.Address{
		Oblast: "Одеська", Community: "Одеса", StreetType: "вулиця", StreetName: "Дерибасівська",
	}).Return(nil, geocoding.ErrNoResult).Once()
}

func (tf *toponymFixture) seedExisting(t *testing.T) {
	t.Helper()
	require.NoError(t, tf.w.Toponyms().Create(tf.ctx, &domain.Toponym{
		Oblast: "Київська", Community: "Київ", StreetType: "вулиця", StreetName: "Володимирська",
	}))
}

func assertImported(t *testing.T, tf *toponymFixture, report *domain.ToponymImportReport) {
	t.Helper()
	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, report.Invalid)
	assert.Equal(t, 1, report.Geocoded)
	assert.Len(t, report.Errors, 2)

	rynok, err := tf.w.Toponyms().GetFirst(tf.ctx, store.Eq("street_name", "Ринок"))
	require.NoError(t, err)
	require.True(t, rynok.HasCoordinates())
	assert.InDelta(t, 49.8419, *rynok.Latitude, 1e-9)

	khreshchatyk, err := tf.w.Toponyms().GetFirst(tf.ctx, store.Eq("street_name", "Хрещатик"))
	require.NoError(t, err)
	require.True(t, khreshchatyk.HasCoordinates())
	assert.InDelta(t, 30.5223, *khreshchatyk.Longitude, 1e-9)

	deribasivska, err := tf.w.Toponyms().GetFirst(tf.ctx, store.Eq("street_name", "Дерибасівська"))
	require.NoError(t, err)
	assert.False(t, deribasivska.HasCoordinates())

	total, err := tf.w.Toponyms().Count(tf.ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	tf.geocoder.AssertExpectations(t)
}

func TestToponymService_ImportToponyms(t *testing.T) {
	svc, tf := newToponymService(t, &mockEmitter{})
	tf.seedExisting(t)
	tf.expectGeocoding()

	blobName, err := tf.blobs.Save(tf.ctx, zipArchive(t, map[string]string{"streets.csv": toponymCSV}), "toponyms", "zip")
	require.NoError(t, err)

	report, err := svc.ImportToponyms(tf.ctx, blobName)
	require.NoError(t, err)
	assertImported(t, tf, report)

	_, err = tf.blobs.Find(tf.ctx, blobName)
	assert.ErrorIs(t, err, blob.ErrNotFound, "imported archive is removed")
}

func TestToponymService_ImportThroughTaskRunner(t *testing.T) {
	emitter := events.NewInMemoryEventEmitter(testLogger()).Strict()
	svc, tf := newToponymService(t, emitter)
	tf.seedExisting(t)
	tf.expectGeocoding()

	factory := task.NewToponymImportTaskFactory(svc, testLogger())
	registry := task.NewRegistry()
	registry.Register(task.TaskTypeToponymImport, factory.Restore)
	runner := task.NewTaskRunner(tf.tasks, registry, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, testLogger())
	require.NoError(t, runner.Start())
	t.Cleanup(runner.Stop)

	handler := task.NewTaskFactoryEventHandler(runner, testLogger())
	handler.Handle(task.TaskTypeToponymImport, factory)
	emitter.RegisterHandler(handler)

	taskID, err := svc.StartImport(tf.ctx, zipArchive(t, map[string]string{
		"readme.txt":       "ignored",
		"data/streets.CSV": toponymCSV,
	}))
	require.NoError(t, err)

	var rec *task.Record
	require.Eventually(t, func() bool {
		rec, err = svc.ImportStatus(tf.ctx, taskID)
		return err == nil && rec.Status == task.TaskStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	var report domain.ToponymImportReport
	require.NoError(t, json.Unmarshal(rec.Result, &report))
	assertImported(t, tf, &report)
}

func TestToponymService_StartImportRejectsArchive(t *testing.T) {
	emitter := &mockEmitter{}
	svc, tf := newToponymService(t, emitter)

	tests := []struct {
		name    string
		archive string
	}{
		{"not base64", "%%%"},
		{"not a zip", encode("plain text")},
		{"no csv", zipArchive(t, map[string]string{"a.txt": "x"})},
		{"two csv files", zipArchive(t, map[string]string{"a.csv": "x", "b.csv": "y"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StartImport(tf.ctx, tt.archive)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	emitter.AssertNotCalled(t, "EmitEvent", mock.Anything, mock.Anything)
}

func TestToponymService_StartImportEmitFailure(t *testing.T) {
	emitter := &mockEmitter{}
	emitter.On("EmitEvent", mock.Anything, mock.Anything).Return(errors.New("queue full"))
	svc, tf := newToponymService(t, emitter)

	_, err := svc.StartImport(tf.ctx, zipArchive(t, map[string]string{"a.csv": toponymCSV}))
	var serviceErr *service.ServiceError
	require.ErrorAs(t, err, &serviceErr)

	event := emitter.Calls[0].Arguments.Get(1).(*events.TaskRequestEvent)
	var payload task.ToponymImportPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	_, err = tf.blobs.Find(tf.ctx, payload.BlobName)
	assert.ErrorIs(t, err, blob.ErrNotFound, "archive of a failed start is removed")
}

func TestToponymService_ImportMissingColumns(t *testing.T) {
	svc, tf := newToponymService(t, &mockEmitter{})
	blobName, err := tf.blobs.Save(tf.ctx,
		zipArchive(t, map[string]string{"a.csv": "oblast;street_name\nКиївська;Хрещатик\n"}), "toponyms", "zip")
	require.NoError(t, err)

	_, err = svc.ImportToponyms(tf.ctx, blobName)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestToponymService_ImportStatusUnknownTask(t *testing.T) {
	svc, tf := newToponymService(t, &mockEmitter{})
	_, err := svc.ImportStatus(tf.ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestToponymService_GetAllPaging(t *testing.T) {
	svc, tf := newToponymService(t, &mockEmitter{})
	for _, name := range []string{"Антоновича", "Басейна", "Велика Васильківська", "Городецького", "Дегтярівська"} {
		require.NoError(t, svc.Create(tf.ctx, &domain.Toponym{
			Oblast: "Київська", Community: "Київ", StreetType: "вулиця", StreetName: name,
		}))
	}
	require.NoError(t, svc.Create(tf.ctx, &domain.Toponym{
		Oblast: "Львівська", Community: "Львів", StreetType: "вулиця", StreetName: "Городоцька",
	}))

	page, err := svc.GetAll(tf.ctx, service.ToponymFilter{Community: "Київ", Page: 2, Amount: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Toponyms, 2)
	assert.Equal(t, "Велика Васильківська", page.Toponyms[0].StreetName)

	page, err = svc.GetAll(tf.ctx, service.ToponymFilter{StreetName: "город"})
	require.NoError(t, err)
	assert.Len(t, page.Toponyms, 2)
	assert.Equal(t, 1, page.Pages)

	page, err = svc.GetAll(tf.ctx, service.ToponymFilter{Community: "Київ", Page: math.MaxInt, Amount: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Toponyms)
	assert.Equal(t, 3, page.Pages)
}

func TestToponymService_LinkUnlink(t *testing.T) {
	svc, tf := newToponymService(t, &mockEmitter{})
	sc := tf.streetcode(1, "sc")
	toponym := &domain.Toponym{Oblast: "Київська", Community: "Київ", StreetType: "вулиця", StreetName: "Шевченка"}
	require.NoError(t, svc.Create(tf.ctx, toponym))

	require.NoError(t, svc.Link(tf.ctx, sc.ID, toponym.ID))
	require.NoError(t, svc.Link(tf.ctx, sc.ID, toponym.ID), "linking twice is a no-op")

	linked, err := svc.GetByStreetcodeID(tf.ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)

	assert.ErrorIs(t, svc.Link(tf.ctx, 999, toponym.ID), store.ErrNotFound)
	assert.ErrorIs(t, svc.Link(tf.ctx, sc.ID, 999), store.ErrNotFound)

	require.NoError(t, svc.Unlink(tf.ctx, sc.ID, toponym.ID))
	assert.ErrorIs(t, svc.Unlink(tf.ctx, sc.ID, toponym.ID), store.ErrNotFound)

	require.NoError(t, svc.Link(tf.ctx, sc.ID, toponym.ID))
	require.NoError(t, svc.Delete(tf.ctx, toponym.ID))
	linked, err = svc.GetByStreetcodeID(tf.ctx, sc.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}
