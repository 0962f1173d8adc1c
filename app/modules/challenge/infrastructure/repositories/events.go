package challengedb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// EventExists reports whether an event with the same identity is stored.
// A nil challenge matches events with no challenge.
func (r *Impl) EventExists(ctx context.Context, db bun.IDB, name string, date time.Time, circuit string, challengeID *int64) (bool, error) {
	db = r.resolveDB(db)
	q := db.NewSelect().
		Model((*Event)(nil)).
		Where("name = ?", name).
		Where("date = ?", date.Format(time.DateOnly)).
		Where("circuit = ?", circuit)
	if challengeID == nil {
		q = q.Where("challenge_id IS NULL")
	} else {
		q = q.Where("challenge_id = ?", *challengeID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}

// CreateEvent inserts e and sets its ID.
func (r *Impl) CreateEvent(ctx context.Context, db bun.IDB, e *Event) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(e).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// ListEvents returns matching events in date order.
func (r *Impl) ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]Event, error) {
	db = r.resolveDB(db)
	var events []Event
	q := applyFilter(db.NewSelect().Model(&events), "e", filter).
		Order("date ASC", "id ASC")
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves an event by id.
func (r *Impl) GetEvent(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	db = r.resolveDB(db)
	e := new(Event)
	if err := db.NewSelect().Model(e).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, "event")
	}
	return e, nil
}

// LastEvent returns the most recent event by date.
func (r *Impl) LastEvent(ctx context.Context, db bun.IDB) (*Event, error) {
	db = r.resolveDB(db)
	e := new(Event)
	if err := db.NewSelect().Model(e).Order("date DESC", "id DESC").Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err, "last event")
	}
	return e, nil
}

// RenameEvent updates an event's name.
func (r *Impl) RenameEvent(ctx context.Context, db bun.IDB, id int64, name string) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to rename event: %w", err)
	}
	return requireAffected(res, "event rename")
}

// RedateEvent updates an event's date.
func (r *Impl) RedateEvent(ctx context.Context, db bun.IDB, id int64, date time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("date = ?", date.Format(time.DateOnly)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to redate event: %w", err)
	}
	return requireAffected(res, "event redate")
}

// MoveEvent attaches an event to another challenge, or to none when
// challengeID is nil.
func (r *Impl) MoveEvent(ctx context.Context, db bun.IDB, id int64, challengeID *int64) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("challenge_id = ?", challengeID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to move event: %w", err)
	}
	return requireAffected(res, "event move")
}

// DeleteEvent removes an event; its results cascade.
func (r *Impl) DeleteEvent(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Event)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(res, "event delete")
}

// CountEvents counts every stored event.
func (r *Impl) CountEvents(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Event)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// CountResultsForEvent counts the results attached to an event.
func (r *Impl) CountResultsForEvent(ctx context.Context, db bun.IDB, eventID int64) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Result)(nil)).Where("event_id = ?", eventID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count event results: %w", err)
	}
	return n, nil
}
