package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-apicall/core"

	repository "github.com/goliatone/go-repository-bun"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const defaultJournalLimit = 50

// JournalEntry is a persisted invocation report.
type JournalEntry struct {
	InvocationID  string
	Name          string
	Status        string
	Phase         core.Phase
	Error         string
	HookError     string
	CallerID      string
	CorrelationID string
	StartedAt     time.Time
	Duration      time.Duration
}

// JournalStore records one row per finished invocation. Writes go straight
// to the database, outside any handler's unit of work, so failed invocations
// are journaled too.
type JournalStore struct {
	db     *bun.DB
	repo   repository.Repository[*journalRecord]
	logger core.Logger
}

type JournalOption func(*JournalStore)

func WithJournalLogger(logger core.Logger) JournalOption {
	return func(s *JournalStore) {
		s.logger = glog.Ensure(logger)
	}
}

func NewJournalStore(db *bun.DB, opts ...JournalOption) (*JournalStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*journalRecord](db, journalHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid journal repository wiring: %w", err)
		}
	}
	store := &JournalStore{db: db, repo: repo, logger: glog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

func (s *JournalStore) Append(ctx context.Context, report core.Report) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: journal store is not configured")
	}
	if strings.TrimSpace(report.Name) == "" {
		return fmt.Errorf("sqlstore: invocation name is required")
	}
	id := strings.TrimSpace(report.InvocationID)
	if parseUUID(id) == uuid.Nil {
		id = uuid.NewString()
	}
	startedAt := report.StartedAt.UTC()
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	record := &journalRecord{
		ID:            id,
		Name:          strings.TrimSpace(report.Name),
		Status:        report.Status,
		Phase:         string(report.Phase),
		CallerID:      strings.TrimSpace(report.CallerID),
		CorrelationID: strings.TrimSpace(report.CorrelationID),
		StartedAt:     startedAt,
		DurationMS:    report.Duration.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if report.Err != nil {
		record.Error = report.Err.Error()
	}
	if report.HookErr != nil {
		record.HookError = report.HookErr.Error()
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

// ObserveInvocation journals report. Write failures are logged and never
// reach the invocation that produced the report.
func (s *JournalStore) ObserveInvocation(ctx context.Context, report core.Report) {
	if s == nil {
		return
	}
	if err := s.Append(ctx, report); err != nil {
		s.logger.Error("sqlstore: journal append failed",
			"name", report.Name,
			"invocation_id", report.InvocationID,
			"error", err.Error(),
		)
	}
}

func (s *JournalStore) Get(ctx context.Context, invocationID string) (JournalEntry, error) {
	if s == nil || s.repo == nil {
		return JournalEntry{}, fmt.Errorf("sqlstore: journal store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(invocationID))
	if err != nil {
		return JournalEntry{}, err
	}
	return journalRecordToEntry(record), nil
}

// List returns the most recent entries for name, newest first.
func (s *JournalStore) List(ctx context.Context, name string, limit int) ([]JournalEntry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: journal store is not configured")
	}
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("name", "=", strings.TrimSpace(name)),
		repository.OrderBy("started_at DESC"),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, err
	}
	entries := make([]JournalEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, journalRecordToEntry(record))
	}
	return entries, nil
}

func journalRecordToEntry(record *journalRecord) JournalEntry {
	if record == nil {
		return JournalEntry{}
	}
	return JournalEntry{
		InvocationID:  record.ID,
		Name:          record.Name,
		Status:        record.Status,
		Phase:         core.Phase(record.Phase),
		Error:         record.Error,
		HookError:     record.HookError,
		CallerID:      record.CallerID,
		CorrelationID: record.CorrelationID,
		StartedAt:     record.StartedAt.UTC(),
		Duration:      time.Duration(record.DurationMS) * time.Millisecond,
	}
}
