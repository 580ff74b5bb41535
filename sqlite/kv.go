package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tomecat/tomecat"
)

// Compile-time interface verification.
var _ tomecat.KV = (*KV)(nil)

// KV implements tomecat.KV using SQLite. Expired entries are treated as
// absent on read and lazily deleted.
type KV struct {
	db  *DB
	now func() time.Time
}

// NewKV creates a new KV store.
func NewKV(db *DB) *KV {
	return &KV{db: db, now: time.Now}
}

// Get returns the value for key, or ENOTFOUND if absent or expired.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expiresAt sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM kv WHERE key = ?
	`, key).Scan(&value, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, tomecat.Errorf(tomecat.ENOTFOUND, "key %q not found", key)
	}
	if err != nil {
		return nil, err
	}

	if expired, err := s.isExpired(expiresAt); err != nil {
		return nil, err
	} else if expired {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
		return nil, tomecat.Errorf(tomecat.ENOTFOUND, "key %q not found", key)
	}

	return value, nil
}

// Set stores value under key. A non-zero ttl expires the entry.
func (s *KV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt any
	if ttl != 0 {
		expiresAt = s.now().UTC().Add(ttl).Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt)

	return err
}

// Delete removes the entry. Deleting a missing key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Keys returns all live keys with the given prefix, sorted.
func (s *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, expires_at FROM kv
		WHERE key LIKE ? ESCAPE '\'
		ORDER BY key
	`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		var expiresAt sql.NullString
		if err := rows.Scan(&key, &expiresAt); err != nil {
			return nil, err
		}
		if expired, err := s.isExpired(expiresAt); err != nil {
			return nil, err
		} else if expired {
			continue
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// escapeLike escapes LIKE wildcards so a prefix is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *KV) isExpired(expiresAt sql.NullString) (bool, error) {
	if !expiresAt.Valid {
		return false, nil
	}
	t, err := time.Parse(time.RFC3339, expiresAt.String)
	if err != nil {
		return false, err
	}
	return !t.After(s.now().UTC()), nil
}
