package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	applog "github.com/kmkohl117-gif/brainbucket-android/internal/logger"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// StateKey is the well-known key the whole application state is stored under.
const StateKey = "brainBucketData"

// StateRepo persists the application state as a single JSON blob.
// It implements store.Persister.
type StateRepo struct {
	db     *sql.DB
	key    string
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Persister = (*StateRepo)(nil)

// NewStateRepo returns a repo storing state under StateKey.
func NewStateRepo(db *sql.DB, logger *slog.Logger) *StateRepo {
	if logger == nil {
		logger = applog.Discard()
	}
	return &StateRepo{db: db, key: StateKey, logger: logger, now: time.Now}
}

// Load returns the persisted state, or nil on first run.
// A blob that fails to decode is moved aside under a backup key and treated as
// a first run so the app stays usable; the original bytes are kept for recovery.
func (r *StateRepo) Load(ctx context.Context) (*store.State, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE key = ?`, r.key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("load")
		}
		return nil, errors.NewInternal(err)
	}

	var s store.State
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", r.key, r.now().Unix())
		r.logger.Warn("persisted state is unreadable, starting fresh",
			"error", err,
			"backup_key", backup,
		)
		if _, err := r.db.ExecContext(ctx, `UPDATE app_state SET key = ? WHERE key = ?`, backup, r.key); err != nil {
			return nil, errors.NewInternal(err)
		}
		return nil, nil
	}
	return &s, nil
}

// Save replaces the stored blob with s.
func (r *StateRepo) Save(ctx context.Context, s store.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO app_state (key, data, schema_version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(data), s.SchemaVersion, r.now().Unix()); err != nil {
		if ctx.Err() != nil {
			return errors.NewCancelled("save")
		}
		return errors.NewInternal(err)
	}
	return nil
}
