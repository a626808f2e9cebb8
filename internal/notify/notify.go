// Package notify schedules expiry reminders for entities whose expiry dates
// fall inside the upcoming window.
package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pantry-app/pantry/pkg/types"
)

// Reminder is one scheduled notification.
type Reminder struct {
	EntityID   int64
	EntityName string
	FieldName  string
	FireAt     time.Time
}

// Scheduler delivers reminders through a platform notification mechanism.
// EnsurePermission runs before any scheduling; implementations return false
// without error when the user has declined.
type Scheduler interface {
	EnsurePermission() (bool, error)
	Schedule(r Reminder) error
	Cancel(entityID int64) error
}

// ExpiryLister yields the entities whose expiry dates fall inside the
// reminder window.
type ExpiryLister interface {
	FindExpiringIn3Days() ([]types.ExpiringEntity, error)
}

// LogScheduler is the default scheduler. It records reminders in the log
// instead of delivering them, which keeps the reminder flow exercisable on
// platforms with no notification support.
type LogScheduler struct {
	log *zap.SugaredLogger
}

// NewLogScheduler returns a scheduler that only logs. A nil logger disables
// output.
func NewLogScheduler(log *zap.SugaredLogger) *LogScheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LogScheduler{log: log}
}

// EnsurePermission always grants; logging needs none.
func (s *LogScheduler) EnsurePermission() (bool, error) { return true, nil }

// Schedule records the reminder.
func (s *LogScheduler) Schedule(r Reminder) error {
	s.log.Infow("reminder scheduled",
		"entity", r.EntityID, "name", r.EntityName, "field", r.FieldName, "at", r.FireAt)
	return nil
}

// Cancel records the cancellation.
func (s *LogScheduler) Cancel(entityID int64) error {
	s.log.Infow("reminder canceled", "entity", entityID)
	return nil
}

// Reminders schedules one reminder per expiring entity.
type Reminders struct {
	lister    ExpiryLister
	scheduler Scheduler
	log       *zap.SugaredLogger

	// now is replaceable in tests.
	now func() time.Time
}

// NewReminders wires the expiry query to a scheduler. A nil scheduler falls
// back to logging; a nil logger disables logging.
func NewReminders(lister ExpiryLister, scheduler Scheduler, log *zap.SugaredLogger) *Reminders {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if scheduler == nil {
		scheduler = NewLogScheduler(log)
	}
	return &Reminders{lister: lister, scheduler: scheduler, log: log, now: time.Now}
}

// Sync schedules a reminder for every entity currently inside the expiry
// window and returns how many were scheduled. Entities whose dates are
// already past are skipped. Without permission the sync is a no-op.
func (r *Reminders) Sync() (int, error) {
	ok, err := r.scheduler.EnsurePermission()
	if err != nil {
		return 0, fmt.Errorf("checking notification permission: %w", err)
	}
	if !ok {
		r.log.Infow("notification permission declined, skipping reminders")
		return 0, nil
	}

	expiring, err := r.lister.FindExpiringIn3Days()
	if err != nil {
		return 0, fmt.Errorf("listing expiring entities: %w", err)
	}

	today := r.now().Format("2006-01-02")
	scheduled := 0
	for _, ex := range expiring {
		if ex.ExpiresOn < today {
			continue
		}
		fireAt, err := time.Parse("2006-01-02", ex.ExpiresOn)
		if err != nil {
			r.log.Warnw("unparseable expiry date", "entity", ex.Entity.ID, "date", ex.ExpiresOn)
			continue
		}
		if err := r.scheduler.Schedule(Reminder{
			EntityID:   ex.Entity.ID,
			EntityName: ex.Entity.Name,
			FieldName:  ex.FieldName,
			FireAt:     fireAt,
		}); err != nil {
			return scheduled, fmt.Errorf("scheduling reminder for entity %d: %w", ex.Entity.ID, err)
		}
		scheduled++
	}
	return scheduled, nil
}
