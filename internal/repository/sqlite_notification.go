package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/google/uuid"
)

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

const notificationColumns = `id, type, sender_name, sender_role, title, message, recipient_id,
	link, status, feedback, read, pinned, archived, dedupe_key, created_at`

func (r *SQLiteNotificationRepo) Create(ctx context.Context, in domain.NotificationInput) (string, error) {
	if strings.TrimSpace(in.RecipientID) == "" {
		return "", fmt.Errorf("creating notification: recipient is required")
	}

	id := uuid.New().String()
	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
		ON CONFLICT(dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		id,
		string(in.Type),
		in.SenderName,
		string(in.SenderRole),
		in.Title,
		in.Message,
		in.RecipientID,
		nullableString(in.Link),
		nullableString(string(in.Status)),
		nullableString(in.Feedback),
		nullableString(in.DedupeKey),
		formatTime(nowUTC()),
	)
	if err != nil {
		return "", wrapStorageErr("inserting notification", err)
	}

	if in.DedupeKey != "" {
		n, err := res.RowsAffected()
		if err != nil {
			return "", wrapStorageErr("inserting notification", err)
		}
		if n == 0 {
			return r.idByDedupeKey(ctx, in.DedupeKey)
		}
	}
	return id, nil
}

func (r *SQLiteNotificationRepo) idByDedupeKey(ctx context.Context, key string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM notifications WHERE dedupe_key = ?`, key).Scan(&id)
	if err != nil {
		return "", wrapStorageErr("resolving deduplicated notification", err)
	}
	return id, nil
}

func (r *SQLiteNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification: %w", ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *SQLiteNotificationRepo) ListFor(ctx context.Context, q NotificationQuery) ([]*domain.Notification, error) {
	recipients := []any{q.UserID}
	for _, t := range q.Tokens {
		if t != "" && t != q.UserID {
			recipients = append(recipients, t)
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recipients)), ",")

	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE recipient_id IN (` + placeholders + `) AND archived = ?
		ORDER BY created_at DESC, rowid DESC`
	args := append(recipients, boolToInt(q.Archived))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStorageErr("listing notifications", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("iterating notifications", err)
	}
	return out, nil
}

func (r *SQLiteNotificationRepo) SetFlags(ctx context.Context, id string, flags domain.NotificationFlags) error {
	if flags.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}

	var sets []string
	var args []any
	if flags.Read != nil {
		sets = append(sets, "read = ?")
		args = append(args, boolToInt(*flags.Read))
	}
	if flags.Pinned != nil {
		sets = append(sets, "pinned = ?")
		args = append(args, boolToInt(*flags.Pinned))
	}
	if flags.Archived != nil {
		sets = append(sets, "archived = ?")
		args = append(args, boolToInt(*flags.Archived))
	}
	args = append(args, id)

	query := `UPDATE notifications SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStorageErr("updating notification flags", err)
	}
	return requireAffected(res, "notification")
}

func (r *SQLiteNotificationRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, feedback *string) error {
	query := `UPDATE notifications SET status = ? WHERE id = ?`
	args := []any{nullableString(string(status)), id}
	if feedback != nil {
		query = `UPDATE notifications SET status = ?, feedback = ? WHERE id = ?`
		args = []any{nullableString(string(status)), nullableString(*feedback), id}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStorageErr("updating notification status", err)
	}
	return requireAffected(res, "notification")
}

func (r *SQLiteNotificationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return wrapStorageErr("deleting notification", err)
	}
	return requireAffected(res, "notification")
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapStorageErr("reading affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(s rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var typ, senderRole, createdAt string
	var link, status, feedback, dedupe sql.NullString
	var read, pinned, archived int

	err := s.Scan(
		&n.ID, &typ, &n.SenderName, &senderRole, &n.Title, &n.Message, &n.RecipientID,
		&link, &status, &feedback, &read, &pinned, &archived, &dedupe, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapStorageErr("scanning notification", err)
	}

	n.Type = domain.NotificationType(typ)
	n.SenderRole = domain.Role(senderRole)
	n.Link = stringOrEmpty(link)
	n.Status = domain.PlanStatus(stringOrEmpty(status))
	n.Feedback = stringOrEmpty(feedback)
	n.Read = intToBool(read)
	n.Pinned = intToBool(pinned)
	n.Archived = intToBool(archived)
	n.DedupeKey = stringOrEmpty(dedupe)
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &n, nil
}
