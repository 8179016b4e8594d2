package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/collabwrite/collabwrite/internal/models"
)

// fakeRepo keeps sessions in a map, enough for the service logic.
type fakeRepo struct {
	store map[string]*Session
}

func newFakeRepo() *fakeRepo { return &fakeRepo{store: map[string]*Session{}} }

func (f *fakeRepo) Create(_ context.Context, s *Session) error {
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeRepo) GetByRefresh(_ context.Context, refresh string) (*Session, error) {
	return f.store[refresh], nil
}

func (f *fakeRepo) DeleteByRefresh(_ context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func TestCreateSessionCarriesProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u := &models.User{Sub: "1", Name: "Demo User", Email: "demo@example.com", Image: "https://img/d.png"}
	tok, err := svc.CreateSession(ctx, u, time.Hour)
	require.NoError(t, err)
	require.Len(t, tok, 64, "32 random bytes hex-encoded")

	sess, err := svc.ValidateRefresh(ctx, tok)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "1", sess.UserID)

	rebuilt := sess.User()
	require.Equal(t, u.Sub, rebuilt.Sub)
	require.Equal(t, u.Name, rebuilt.Name)
	require.Equal(t, u.Email, rebuilt.Email)
	require.Equal(t, u.Image, rebuilt.Image)
}

func TestValidateRefreshExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.store["old"] = &Session{
		RefreshToken: "old",
		UserID:       "1",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}

	sess, err := svc.ValidateRefresh(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, sess)
	require.NotContains(t, repo.store, "old", "expired sessions are cleaned up")
}

func TestDeleteRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	tok, err := svc.CreateSession(ctx, &models.User{Sub: "1"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRefresh(ctx, tok))

	sess, err := svc.ValidateRefresh(ctx, tok)
	require.NoError(t, err)
	require.Nil(t, sess)
}
