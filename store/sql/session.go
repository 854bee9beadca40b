package sqlstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

// Mutation is one staged write, applied inside the commit transaction.
type Mutation func(ctx context.Context, tx bun.IDB) error

// Session is a bun-backed unit of work. Writes are staged in memory and
// applied in order by SaveChanges inside a single transaction. The staged
// list is cleared after every SaveChanges, whether it committed or not.
type Session struct {
	db *bun.DB

	mu     sync.Mutex
	staged []Mutation
}

func NewSession(db *bun.DB) (*Session, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &Session{db: db}, nil
}

func (s *Session) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Session) Stage(mutation Mutation) {
	if s == nil || mutation == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, mutation)
}

func (s *Session) Insert(model any) {
	s.Stage(func(ctx context.Context, tx bun.IDB) error {
		_, err := tx.NewInsert().Model(model).Exec(ctx)
		return err
	})
}

// Update writes model by primary key. With no columns every column is written.
func (s *Session) Update(model any, columns ...string) {
	s.Stage(func(ctx context.Context, tx bun.IDB) error {
		query := tx.NewUpdate().Model(model).WherePK()
		if len(columns) > 0 {
			query = query.Column(columns...)
		}
		_, err := query.Exec(ctx)
		return err
	})
}

func (s *Session) Delete(model any) {
	s.Stage(func(ctx context.Context, tx bun.IDB) error {
		_, err := tx.NewDelete().Model(model).WherePK().Exec(ctx)
		return err
	})
}

func (s *Session) Exec(query string, args ...any) {
	s.Stage(func(ctx context.Context, tx bun.IDB) error {
		_, err := tx.NewRaw(query, args...).Exec(ctx)
		return err
	})
}

func (s *Session) Pending() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

// Discard drops staged writes without touching the database.
func (s *Session) Discard() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

func (s *Session) SaveChanges(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: session is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.staged
	s.staged = nil
	if len(staged) == 0 {
		return nil
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for idx, mutation := range staged {
			if err := mutation(ctx, tx); err != nil {
				return fmt.Errorf("sqlstore: staged write %d: %w", idx+1, err)
			}
		}
		return nil
	})
}
