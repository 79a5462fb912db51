package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadirly/hadirly-api/internal/models"
)

type recordedWrite struct {
	entity models.EntityType
	id     string
	fields map[string]interface{}
}

type recordedDelete struct {
	id        string
	deletedAt time.Time
}

// fakeEntityStore records writes and serves configurable pull rows.
type fakeEntityStore struct {
	entity     models.EntityType
	applyLog   *[]recordedWrite
	upserts    map[string]map[string]interface{}
	deletes    []recordedDelete
	upsertErr  map[string]error
	changedErr error
}

func newFakeEntityStore(entity models.EntityType, applyLog *[]recordedWrite) *fakeEntityStore {
	return &fakeEntityStore{
		entity:    entity,
		applyLog:  applyLog,
		upserts:   map[string]map[string]interface{}{},
		upsertErr: map[string]error{},
	}
}

func (f *fakeEntityStore) SyncUpsert(_ context.Context, id string, fields map[string]interface{}) error {
	if err := f.upsertErr[id]; err != nil {
		return err
	}
	if f.applyLog != nil {
		*f.applyLog = append(*f.applyLog, recordedWrite{entity: f.entity, id: id, fields: fields})
	}
	f.upserts[id] = fields
	return nil
}

func (f *fakeEntityStore) SyncMarkDeleted(_ context.Context, id string, deletedAt time.Time) error {
	f.deletes = append(f.deletes, recordedDelete{id: id, deletedAt: deletedAt})
	return nil
}

type fakeClassStore struct {
	*fakeEntityStore
	rows []models.Class
}

func (f *fakeClassStore) ChangedSince(context.Context, time.Time) ([]models.Class, error) {
	return f.rows, f.changedErr
}

type fakeStudentStore struct {
	*fakeEntityStore
	rows []models.Student
}

func (f *fakeStudentStore) ChangedSince(context.Context, time.Time) ([]models.Student, error) {
	return f.rows, f.changedErr
}

type fakeAttendanceStore struct {
	*fakeEntityStore
	rows []models.AttendanceRecord
}

func (f *fakeAttendanceStore) ChangedSince(context.Context, time.Time) ([]models.AttendanceRecord, error) {
	return f.rows, f.changedErr
}

type fakeNoteStore struct {
	*fakeEntityStore
	rows []models.Note
}

func (f *fakeNoteStore) ChangedSince(context.Context, time.Time) ([]models.Note, error) {
	return f.rows, f.changedErr
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) EntityChanged(entity models.EntityType, operation models.Operation) {
	f.events = append(f.events, string(entity)+":"+string(operation))
}

type syncFixture struct {
	svc        *SyncService
	classes    *fakeClassStore
	users      *fakeEntityStore
	students   *fakeStudentStore
	attendance *fakeAttendanceStore
	notes      *fakeNoteStore
	notifier   *fakeNotifier
	applyLog   []recordedWrite
}

func newSyncFixture() *syncFixture {
	fx := &syncFixture{}
	fx.classes = &fakeClassStore{fakeEntityStore: newFakeEntityStore(models.EntityClass, &fx.applyLog)}
	fx.users = newFakeEntityStore(models.EntityUser, &fx.applyLog)
	fx.students = &fakeStudentStore{fakeEntityStore: newFakeEntityStore(models.EntityStudent, &fx.applyLog)}
	fx.attendance = &fakeAttendanceStore{fakeEntityStore: newFakeEntityStore(models.EntityAttendance, &fx.applyLog)}
	fx.notes = &fakeNoteStore{fakeEntityStore: newFakeEntityStore(models.EntityNote, &fx.applyLog)}
	fx.notifier = &fakeNotifier{}
	fx.svc = NewSyncService(fx.classes, fx.users, fx.students, fx.attendance, fx.notes, fx.notifier, nil, nil, nil)
	return fx
}

func TestApplyBatchPartitionsEveryEnvelope(t *testing.T) {
	fx := newSyncFixture()
	fx.students.upsertErr["s-2"] = errors.New("class missing")

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityStudent, EntityID: "s-1", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "Siti", "classId": "c-1"}},
		{UUID: "u2", EntityType: models.EntityStudent, EntityID: "s-2", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "Budi", "classId": "missing"}},
		{UUID: "u3", EntityType: models.EntityNote, EntityID: "n-1", Operation: models.OpCreate, Payload: map[string]interface{}{"studentId": "s-1", "content": "late"}},
	})

	assert.Equal(t, []string{"u1", "u3"}, result.ProcessedUUIDs)
	require.Len(t, result.FailedUUIDs, 1)
	assert.Equal(t, "u2", result.FailedUUIDs[0].UUID)
	assert.Equal(t, "class missing", result.FailedUUIDs[0].Error)
}

func TestApplyBatchReordersByEntityDependency(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityAttendance, EntityID: "a-1", Operation: models.OpCreate, Payload: map[string]interface{}{"studentId": "s-1", "status": models.AttendancePresent}},
		{UUID: "u2", EntityType: models.EntityStudent, EntityID: "s-1", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "Siti", "classId": "c-1"}},
		{UUID: "u3", EntityType: models.EntityClass, EntityID: "c-1", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "1A"}},
	})

	assert.Empty(t, result.FailedUUIDs)
	assert.Equal(t, []string{"u3", "u2", "u1"}, result.ProcessedUUIDs)

	require.Len(t, fx.applyLog, 3)
	assert.Equal(t, models.EntityClass, fx.applyLog[0].entity)
	assert.Equal(t, models.EntityStudent, fx.applyLog[1].entity)
	assert.Equal(t, models.EntityAttendance, fx.applyLog[2].entity)
}

func TestApplyBatchKeepsArrivalOrderWithinSamePriority(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityNote, EntityID: "n-1", Operation: models.OpCreate, Payload: map[string]interface{}{"content": "first"}},
		{UUID: "u2", EntityType: models.EntityAttendance, EntityID: "a-1", Operation: models.OpCreate, Payload: map[string]interface{}{"status": models.AttendanceLate}},
		{UUID: "u3", EntityType: models.EntityNote, EntityID: "n-1", Operation: models.OpUpdate, Payload: map[string]interface{}{"content": "second"}},
	})

	// NOTE and ATTENDANCE share a priority tier; the stable sort preserves
	// arrival order so the later update to n-1 wins.
	assert.Equal(t, []string{"u1", "u2", "u3"}, result.ProcessedUUIDs)
	assert.Equal(t, "second", fx.notes.upserts["n-1"]["content"])
}

func TestApplyBatchDuplicateCreateConverges(t *testing.T) {
	fx := newSyncFixture()
	envelopes := []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityClass, EntityID: "c-1", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "1A"}},
		{UUID: "u2", EntityType: models.EntityClass, EntityID: "c-1", Operation: models.OpCreate, Payload: map[string]interface{}{"name": "1A"}},
	}

	result := fx.svc.ApplyBatch(context.Background(), envelopes)

	assert.Equal(t, []string{"u1", "u2"}, result.ProcessedUUIDs)
	assert.Empty(t, result.FailedUUIDs)
	assert.Equal(t, "1A", fx.classes.upserts["c-1"]["name"])
}

func TestApplyBatchDeleteAbsentRowSucceeds(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityNote, EntityID: "gone", Operation: models.OpDelete, Payload: map[string]interface{}{}},
	})

	assert.Equal(t, []string{"u1"}, result.ProcessedUUIDs)
	assert.Empty(t, result.FailedUUIDs)
	require.Len(t, fx.notes.deletes, 1)
	assert.Equal(t, "gone", fx.notes.deletes[0].id)
}

func TestApplyBatchDeleteUsesPayloadDeletionTime(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityStudent, EntityID: "s-1", Operation: models.OpVirtualDelete, Payload: map[string]interface{}{
			"deletedAt": "2025-03-10T08:15:30.123456Z",
		}},
	})

	assert.Equal(t, []string{"u1"}, result.ProcessedUUIDs)
	require.Len(t, fx.students.deletes, 1)
	expected := time.Date(2025, 3, 10, 8, 15, 30, 123_000_000, time.UTC)
	assert.True(t, fx.students.deletes[0].deletedAt.Equal(expected))
}

func TestApplyBatchRejectsUnknownEntityType(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: "TEACHER", EntityID: "t-1", Operation: models.OpCreate, Payload: map[string]interface{}{}},
	})

	assert.Empty(t, result.ProcessedUUIDs)
	require.Len(t, result.FailedUUIDs, 1)
	assert.Contains(t, result.FailedUUIDs[0].Error, "unknown entity type")
	assert.Empty(t, fx.applyLog)
}

func TestApplyBatchRejectsUnknownOperation(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityClass, EntityID: "c-1", Operation: "MERGE", Payload: map[string]interface{}{}},
	})

	require.Len(t, result.FailedUUIDs, 1)
	assert.Contains(t, result.FailedUUIDs[0].Error, "unknown operation")
}

func TestApplyBatchNormalizesTimestampsBeforeWrite(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityAttendance, EntityID: "a-1", Operation: models.OpCreate, Payload: map[string]interface{}{
			"studentId": "s-1",
			"status":    models.AttendancePresent,
			"date":      "2025-03-10T00:00:00.000000Z",
		}},
	})

	require.Equal(t, []string{"u1"}, result.ProcessedUUIDs)
	date, ok := fx.attendance.upserts["a-1"]["date"].(time.Time)
	require.True(t, ok)
	assert.True(t, date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestApplyBatchNotifiesOnSuccessOnly(t *testing.T) {
	fx := newSyncFixture()
	fx.notes.upsertErr["n-2"] = errors.New("boom")

	fx.svc.ApplyBatch(context.Background(), []models.ChangeEnvelope{
		{UUID: "u1", EntityType: models.EntityNote, EntityID: "n-1", Operation: models.OpCreate, Payload: map[string]interface{}{"content": "ok"}},
		{UUID: "u2", EntityType: models.EntityNote, EntityID: "n-2", Operation: models.OpCreate, Payload: map[string]interface{}{"content": "nope"}},
	})

	assert.Equal(t, []string{"NOTE:CREATE"}, fx.notifier.events)
}

func TestApplyBatchEmptyInputReturnsEmptyBuckets(t *testing.T) {
	fx := newSyncFixture()

	result := fx.svc.ApplyBatch(context.Background(), nil)

	assert.NotNil(t, result.ProcessedUUIDs)
	assert.NotNil(t, result.FailedUUIDs)
	assert.Empty(t, result.ProcessedUUIDs)
	assert.Empty(t, result.FailedUUIDs)
}

func TestPullCapturesWatermarkBeforeReads(t *testing.T) {
	fx := newSyncFixture()
	before := time.Now().UTC()

	resp, err := fx.svc.Pull(context.Background(), time.Time{})

	require.NoError(t, err)
	assert.False(t, resp.ServerTimestamp.Before(before))
	assert.False(t, resp.ServerTimestamp.After(time.Now().UTC()))
}

func TestPullReturnsEmptySlicesNotNil(t *testing.T) {
	fx := newSyncFixture()

	resp, err := fx.svc.Pull(context.Background(), time.Now())

	require.NoError(t, err)
	assert.NotNil(t, resp.Changes.Students)
	assert.NotNil(t, resp.Changes.Attendance)
	assert.NotNil(t, resp.Changes.Notes)
	assert.NotNil(t, resp.Changes.Classes)
}

func TestPullReturnsChangedRowsIncludingTombstones(t *testing.T) {
	fx := newSyncFixture()
	deletedAt := time.Now().UTC()
	fx.students.rows = []models.Student{{ID: "s-1", Name: "Siti", ClassID: "c-1"}}
	fx.notes.rows = []models.Note{{ID: "n-1", StudentID: "s-1", IsDeleted: true, DeletedAt: &deletedAt}}

	resp, err := fx.svc.Pull(context.Background(), time.Time{})

	require.NoError(t, err)
	require.Len(t, resp.Changes.Students, 1)
	assert.Equal(t, "s-1", resp.Changes.Students[0].ID)
	require.Len(t, resp.Changes.Notes, 1)
	assert.True(t, resp.Changes.Notes[0].IsDeleted)
}

func TestPullPropagatesStoreFailure(t *testing.T) {
	fx := newSyncFixture()
	fx.attendance.changedErr = errors.New("connection reset")

	resp, err := fx.svc.Pull(context.Background(), time.Time{})

	assert.Nil(t, resp)
	require.Error(t, err)
}
