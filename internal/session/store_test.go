package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "terminal.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStoreSaveLoad(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	user := model.User{ID: "u1", Email: "trader@example.com", FirstName: "Ada"}
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.Save(user, token))

	gotUser, gotToken, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, token, gotToken)
}

func TestStoreSaveReplacesSession(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.Save(model.User{ID: "u1"}, token))
	require.NoError(t, store.Save(model.User{ID: "u2"}, token))

	user, _, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestStoreUpdateUserKeepsToken(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(model.User{ID: "u1", FirstName: "Ada"}, token))

	require.NoError(t, store.UpdateUser(model.User{ID: "u1", FirstName: "Grace"}))

	user, gotToken, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FirstName)
	assert.Equal(t, token, gotToken)
}

func TestStoreLoadNoSession(t *testing.T) {
	t.Parallel()

	_, _, err := openTestStore(t).Load()
	assert.ErrorIs(t, err, NoSessionError)
}

func TestStoreLoadExpiredToken(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	require.NoError(t, store.Save(model.User{ID: "u1"}, signedToken(t, time.Now().Add(-time.Hour))))

	_, _, err := store.Load()
	require.ErrorIs(t, err, SessionExpiredError)

	// expired row is gone, a second load reports no session
	_, _, err = store.Load()
	assert.ErrorIs(t, err, NoSessionError)
}

func TestStoreLoadOpaqueTokenAssumedAlive(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	require.NoError(t, store.Save(model.User{ID: "u1"}, "opaque-token"))

	_, token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	require.NoError(t, store.Save(model.User{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.Delete())

	_, _, err := store.Load()
	assert.ErrorIs(t, err, NoSessionError)
}

func TestJournalRecordClose(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	trades := []model.Trade{
		{ID: "t-1", Symbol: "EURUSD", Side: model.Buy, Quantity: 1, OpenPrice: 1.1000, ClosePrice: 1.1050},
		{ID: "t-2", Symbol: "XAUUSD", Side: model.Sell, Quantity: 0.5, OpenPrice: 2350, ClosePrice: 2340},
	}
	require.NoError(t, store.RecordClose(trades[0], 500))
	require.NoError(t, store.RecordClose(trades[1], 250))

	entries, err := store.ClosedTrades(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "t-2", entries[0].TradeID)
	assert.Equal(t, "SELL", entries[0].Side)
	assert.InDelta(t, 250, entries[0].RealizedPnl, 1e-9)
	assert.Equal(t, "t-1", entries[1].TradeID)

	limited, err := store.ClosedTrades(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "t-2", limited[0].TradeID)
}

func TestTokenAlive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.True(t, tokenAlive(signedToken(t, now.Add(time.Minute)), now))
	assert.False(t, tokenAlive(signedToken(t, now.Add(-time.Minute)), now))
	assert.True(t, tokenAlive("not-a-jwt", now))
}
