package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/diggibyte/lastmile-user/internal/cache/rediscache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(rediscache.New(mr.Addr()))
}

func TestStore_roundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := NewID()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess := Session{ID: id, Username: "amit", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, st.Create(ctx, sess))

	got, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "amit", got.Username)

	require.NoError(t, st.Delete(ctx, id))
	got, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStore_validation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.Error(t, st.Create(ctx, Session{ID: "", Username: "u", ExpiresAt: time.Now().Add(time.Hour)}))
	require.Error(t, st.Create(ctx, Session{ID: "x", Username: "u", ExpiresAt: time.Now().Add(-time.Hour)}))
}

func TestNewID_unique(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestRequireLogin_redirectsAnonymous(t *testing.T) {
	st := newTestStore(t)

	var reached bool
	h := Middleware(st)(RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, reached)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireLogin_passesLoggedIn(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, _ := NewID()
	require.NoError(t, st.Create(ctx, Session{ID: id, Username: "amit", ExpiresAt: time.Now().Add(time.Hour)}))

	var got string
	h := Middleware(st)(RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Username(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "amit", got)
}
