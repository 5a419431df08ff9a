package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var (
	NoSessionError      = errors.New("no stored session")
	SessionExpiredError = errors.New("stored session token expired")
)

const _schema = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	user_json TEXT NOT NULL,
	token TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS closed_trades (
	id TEXT PRIMARY KEY,
	trade_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	open_price REAL NOT NULL,
	close_price REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	closed_at TIMESTAMP NOT NULL
);`

// Store is the device-local persistence layer: the authenticated session
// (written on login/signup, read on startup, deleted on logout) and a
// journal of trades closed from this terminal. Everything else lives only
// in memory for the process lifetime.
type Store struct {
	db     *sqlx.DB
	logger logger.Logger
}

func Open(path string, logger logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: can't create store dir", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open store", err)
	}

	if _, err := db.Exec(_schema); err != nil {
		return nil, fmt.Errorf("%w: can't init store schema", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const _upsertSession = `INSERT INTO session (id, user_json, token, updated_at)
	VALUES (1, $1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET
		user_json = EXCLUDED.user_json,
		token = EXCLUDED.token,
		updated_at = EXCLUDED.updated_at;`

// Save persists the session, replacing any previous one.
func (s *Store) Save(user model.User, token string) error {
	userJSON, err := sonic.MarshalString(user)
	if err != nil {
		return fmt.Errorf("%w: can't marshal user", err)
	}

	if _, err := s.db.Exec(_upsertSession, userJSON, token, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: can't save session", err)
	}
	return nil
}

// UpdateUser rewrites the stored user while keeping the current token, the
// post-profile-update path. No stored session is not an error.
func (s *Store) UpdateUser(user model.User) error {
	userJSON, err := sonic.MarshalString(user)
	if err != nil {
		return fmt.Errorf("%w: can't marshal user", err)
	}

	if _, err := s.db.Exec(`UPDATE session SET user_json = $1, updated_at = $2 WHERE id = 1`,
		userJSON, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: can't update stored user", err)
	}
	return nil
}

type sessionRow struct {
	UserJSON  string    `db:"user_json"`
	Token     string    `db:"token"`
	UpdatedAt time.Time `db:"updated_at"`
}

const _querySession = `SELECT user_json, token, updated_at FROM session WHERE id = 1`

// Load restores the stored session. A token whose exp claim has passed is
// treated as no session: the row is deleted and SessionExpiredError
// returned, forcing a fresh login.
func (s *Store) Load() (model.User, string, error) {
	var row sessionRow
	if err := s.db.Get(&row, _querySession); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, "", NoSessionError
		}
		return model.User{}, "", fmt.Errorf("%w: can't query session", err)
	}

	if !tokenAlive(row.Token, time.Now()) {
		if err := s.Delete(); err != nil {
			s.logger.Warnf("%s: can't delete expired session", err)
		}
		return model.User{}, "", SessionExpiredError
	}

	var user model.User
	if err := sonic.UnmarshalString(row.UserJSON, &user); err != nil {
		return model.User{}, "", fmt.Errorf("%w: can't unmarshal stored user", err)
	}

	return user, row.Token, nil
}

func (s *Store) Delete() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("%w: can't delete session", err)
	}
	return nil
}

// tokenAlive checks the bearer token's exp claim without verifying the
// signature (the server owns verification). Opaque non-JWT tokens and
// tokens without exp are assumed alive.
func tokenAlive(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(now)
}
