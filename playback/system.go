package playback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/marcus-crane/whatsong/metrics"
	"github.com/marcus-crane/whatsong/shared"
	"github.com/marcus-crane/whatsong/youtube"
)

const (
	insertEventQuery = `INSERT INTO events (source_id, reported_at, duration_seconds, title, version) VALUES (?, ?, ?, ?, ?)`

	currentEventQuery  = `SELECT sequence, source_id, reported_at, duration_seconds, title, version FROM events ORDER BY sequence DESC LIMIT 1`
	previousEventQuery = `SELECT sequence, source_id, reported_at, duration_seconds, title, version FROM events ORDER BY sequence DESC LIMIT 1 OFFSET 1`
	allEventsQuery     = `SELECT sequence, source_id, reported_at, duration_seconds, title, version FROM events ORDER BY sequence ASC`
	countEventsQuery   = `SELECT COUNT(*) FROM events`
)

type PlaybackSystem struct {
	db          *sqlx.DB
	catalog     Catalog
	broadcaster Broadcaster
	// m only guards writers. Readers go straight to the pool.
	m sync.Mutex
}

func NewPlaybackSystem(db *sqlx.DB, catalog Catalog, broadcaster Broadcaster) *PlaybackSystem {
	return &PlaybackSystem{
		db:          db,
		catalog:     catalog,
		broadcaster: broadcaster,
	}
}

// Insert validates a report, resolves its metadata and appends it to the log.
// A nil error means the event is durably recorded.
func (ps *PlaybackSystem) Insert(ctx context.Context, report Report) (event Event, err error) {
	defer func() { metrics.RecordInsert(err) }()

	if report.Version != shared.CurrentAPIVersion {
		slog.Warn("Received report with unsupported version",
			slog.Int("version", report.Version),
			slog.Int("supported", shared.CurrentAPIVersion))
		return event, shared.UnsupportedVersion(shared.CurrentAPIVersion, report.Version)
	}

	id, err := youtube.ExtractID(report.SourceURL)
	if err != nil {
		return event, err
	}

	// The lookup is a network round trip so it has to finish before we
	// take the writer lock
	md, err := ps.catalog.Lookup(ctx, id)
	if err != nil {
		return event, err
	}
	if md.Title == "" || md.DurationSeconds < 0 {
		return event, shared.ErrInvalidMetadata
	}

	event = Event{
		SourceID:        id,
		ReportedAt:      report.ReportedAt,
		DurationSeconds: md.DurationSeconds,
		Title:           md.Title,
		Version:         report.Version,
	}

	// Once we start writing, the append finishes even if the caller goes away
	event, err = ps.append(context.WithoutCancel(ctx), event)
	if err != nil {
		return event, err
	}

	slog.Debug("Inserted new playback event",
		slog.Int64("sequence", event.Sequence),
		slog.String("source_id", event.SourceID))

	if ps.broadcaster != nil {
		if err := ps.broadcaster.Broadcast(shared.STREAM_PLAYBACK, event); err != nil {
			slog.Warn("Failed to broadcast playback event", slog.Any("error", err))
		}
	}

	return event, nil
}

func (ps *PlaybackSystem) append(ctx context.Context, event Event) (Event, error) {
	ps.m.Lock()
	defer ps.m.Unlock()

	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return event, shared.Storage(err)
	}

	var committed bool
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, insertEventQuery,
		event.SourceID, event.ReportedAt, event.DurationSeconds, event.Title, event.Version)
	if err != nil {
		return event, shared.Storage(fmt.Errorf("failed to insert new event: %w", err))
	}

	sequence, err := res.LastInsertId()
	if err != nil {
		return event, shared.Storage(fmt.Errorf("failed to read assigned sequence: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return event, shared.Storage(err)
	}
	committed = true

	event.Sequence = sequence
	return event, nil
}

// Current returns the most recently reported event whether or not it's still
// playing. Use ResolveOffset to find out.
func (ps *PlaybackSystem) Current(ctx context.Context) (Event, error) {
	return ps.getOne(ctx, "current", currentEventQuery)
}

// Previous returns the event reported immediately before Current
func (ps *PlaybackSystem) Previous(ctx context.Context) (Event, error) {
	return ps.getOne(ctx, "previous", previousEventQuery)
}

func (ps *PlaybackSystem) getOne(ctx context.Context, operation, query string) (event Event, err error) {
	defer func() { metrics.RecordQuery(operation, err) }()

	err = ps.db.GetContext(ctx, &event, query)
	if errors.Is(err, sql.ErrNoRows) {
		return event, shared.ErrNotFound
	}
	if err != nil {
		return event, shared.Storage(err)
	}
	return event, nil
}

// All returns every event in the order it was recorded
func (ps *PlaybackSystem) All(ctx context.Context) (events []Event, err error) {
	defer func() { metrics.RecordQuery("all", err) }()

	events = []Event{}
	if err = ps.db.SelectContext(ctx, &events, allEventsQuery); err != nil {
		return []Event{}, shared.Storage(err)
	}
	return events, nil
}

func (ps *PlaybackSystem) Count(ctx context.Context) (count int64, err error) {
	defer func() { metrics.RecordQuery("count", err) }()

	if err = ps.db.GetContext(ctx, &count, countEventsQuery); err != nil {
		return 0, shared.Storage(err)
	}
	return count, nil
}
