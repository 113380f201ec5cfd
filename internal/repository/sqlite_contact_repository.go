package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/banddevs/backend/internal/model"
)

// sqliteTimeLayout matches SQLite's datetime('now') output.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLiteContactRepository is the SQLite implementation of ContactRepository.
type SQLiteContactRepository struct {
	db *sql.DB
}

// NewSQLiteContactRepository creates a SQLiteContactRepository backed by db.
func NewSQLiteContactRepository(db *sql.DB) *SQLiteContactRepository {
	return &SQLiteContactRepository{db: db}
}

var _ ContactRepository = (*SQLiteContactRepository)(nil)

// Save prepares, binds and runs a single INSERT. Timestamps come from msg
// when set, otherwise the current UTC time.
func (r *SQLiteContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	if msg.UpdatedAt.IsZero() {
		msg.UpdatedAt = msg.CreatedAt
	}

	stmt, err := r.db.PrepareContext(ctx,
		`INSERT INTO contact_messages (name, email, company, service, message, created_at, updated_at)
		 VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert contact message: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		msg.Name, msg.Email, msg.Company, msg.Service, msg.Message,
		msg.CreatedAt.UTC().Format(sqliteTimeLayout),
		msg.UpdatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = strconv.FormatInt(id, 10)
	return nil
}

// List returns contact messages newest first, paginated by limit/offset.
func (r *SQLiteContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, COALESCE(company, ''), COALESCE(service, ''), message, created_at, updated_at
		 FROM contact_messages
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var (
			m                model.ContactMessage
			id               int64
			created, updated string
		)
		if err := rows.Scan(&id, &m.Name, &m.Email, &m.Company, &m.Service, &m.Message, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		m.ID = strconv.FormatInt(id, 10)
		if m.CreatedAt, err = parseSQLiteTime(created); err != nil {
			return nil, err
		}
		if m.UpdatedAt, err = parseSQLiteTime(updated); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func parseSQLiteTime(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse sqlite time %q", s)
}
