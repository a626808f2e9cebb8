package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

// fakeLister returns a scripted set of expiring entities.
type fakeLister struct {
	expiring []types.ExpiringEntity
	err      error
}

func (f *fakeLister) FindExpiringIn3Days() ([]types.ExpiringEntity, error) {
	return f.expiring, f.err
}

// fakeScheduler records scheduled reminders.
type fakeScheduler struct {
	granted   bool
	permErr   error
	scheduled []Reminder
}

func (f *fakeScheduler) EnsurePermission() (bool, error) { return f.granted, f.permErr }
func (f *fakeScheduler) Schedule(r Reminder) error {
	f.scheduled = append(f.scheduled, r)
	return nil
}
func (f *fakeScheduler) Cancel(entityID int64) error { return nil }

func expiringOn(id int64, name, date string) types.ExpiringEntity {
	return types.ExpiringEntity{
		Entity:    types.Entity{ID: id, Type: types.EntityTypeItem, Name: name},
		FieldName: "Expiry date",
		ExpiresOn: date,
	}
}

func TestSyncSchedulesUpcoming(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	lister := &fakeLister{expiring: []types.ExpiringEntity{
		expiringOn(1, "Milk", "2026-08-30"),
		expiringOn(2, "Eggs", "2026-09-02"),
	}}
	sched := &fakeScheduler{granted: true}

	r := NewReminders(lister, sched, nil)
	r.now = func() time.Time { return today }

	n, err := r.Sync()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, sched.scheduled, 2)
	assert.Equal(t, int64(1), sched.scheduled[0].EntityID)
	assert.Equal(t, "Milk", sched.scheduled[0].EntityName)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), sched.scheduled[1].FireAt)
}

func TestSyncSkipsPastDue(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	lister := &fakeLister{expiring: []types.ExpiringEntity{
		expiringOn(1, "Stale", "2026-08-29"),
		expiringOn(2, "Fresh", "2026-08-31"),
	}}
	sched := &fakeScheduler{granted: true}

	r := NewReminders(lister, sched, nil)
	r.now = func() time.Time { return today }

	n, err := r.Sync()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sched.scheduled, 1)
	assert.Equal(t, int64(2), sched.scheduled[0].EntityID)
}

func TestSyncWithoutPermission(t *testing.T) {
	lister := &fakeLister{expiring: []types.ExpiringEntity{
		expiringOn(1, "Milk", "2099-01-01"),
	}}
	sched := &fakeScheduler{granted: false}

	r := NewReminders(lister, sched, nil)
	n, err := r.Sync()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sched.scheduled)
}

func TestSyncPermissionError(t *testing.T) {
	sched := &fakeScheduler{permErr: errors.New("notification service down")}
	r := NewReminders(&fakeLister{}, sched, nil)
	_, err := r.Sync()
	assert.Error(t, err)
}

func TestSyncListerError(t *testing.T) {
	lister := &fakeLister{err: errors.New("query failed")}
	r := NewReminders(lister, &fakeScheduler{granted: true}, nil)
	_, err := r.Sync()
	assert.Error(t, err)
}

func TestLogSchedulerGrantsPermission(t *testing.T) {
	s := NewLogScheduler(nil)
	ok, err := s.EnsurePermission()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, s.Schedule(Reminder{EntityID: 1}))
	assert.NoError(t, s.Cancel(1))
}
