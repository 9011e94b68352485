package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/callbell/internal/core/history"
	"github.com/colonyops/callbell/internal/data/db"
)

// HistoryStore implements history.Store on the action_log table.
type HistoryStore struct {
	db *db.DB
}

var _ history.Store = (*HistoryStore)(nil)

func NewHistoryStore(database *db.DB) *HistoryStore {
	return &HistoryStore{db: database}
}

func (s *HistoryStore) Record(ctx context.Context, e history.Entry) (int64, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO action_log (call_id, kind, error, created_at) VALUES (?, ?, ?, ?)`,
		e.CallID, e.Kind, e.Error, e.Timestamp.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("record action %s for call %s: %w", e.Kind, e.CallID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record action: %w", err)
	}
	return id, nil
}

func (s *HistoryStore) List(ctx context.Context, limit int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, call_id, kind, error, created_at FROM action_log ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list action history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []history.Entry
	for rows.Next() {
		var (
			e  history.Entry
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.CallID, &e.Kind, &e.Error, &ts); err != nil {
			return nil, fmt.Errorf("scan action history: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries older than before and returns how many were removed.
func (s *HistoryStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM action_log WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune action history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
