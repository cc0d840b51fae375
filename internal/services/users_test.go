package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"beautycenter/internal/config"
	"beautycenter/internal/storage"
)

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u, err := svc.Create(ctx, "anna", "pw123456", "anna@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "pw123456", u.Password)

	_, err = svc.Create(ctx, "anna", "other", "anna2@example.com")
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.EqualValues(t, 1, count(t, db, &storage.User{}, "username = ?", "anna"))
}

func TestUserAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	_, err := svc.Create(ctx, "anna", "pw123456", "anna@example.com")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "anna", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "anna", u.Username)

	_, err = svc.Authenticate(ctx, "anna", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "pw123456")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUserEnsureUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u1, created, err := svc.EnsureUser(ctx, "admin", "pw", "admin@example.com")
	require.NoError(t, err)
	require.True(t, created)
	u2, created, err := svc.EnsureUser(ctx, "admin", "pw", "admin@example.com")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, u1.ID, u2.ID)
}

func TestUserDeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := mustUser(t, db, "anna")
	bystander := mustUser(t, db, "boris")
	c := mustCenter(t, db, "Lotus")
	comments := NewCommentService(db)

	cid := c.ID
	require.NoError(t, comments.Create(ctx, author.ID, &storage.Comment{Content: "a", Mark: 5}, &cid))
	require.NoError(t, comments.Create(ctx, bystander.ID, &storage.Comment{Content: "b", Mark: 4}, &cid))

	require.NoError(t, NewUserService(db).Delete(ctx, author.ID))
	require.EqualValues(t, 0, count(t, db, &storage.Comment{}, "user_id = ?", author.ID))
	require.EqualValues(t, 1, count(t, db, &storage.Comment{}, ""))
	require.ErrorIs(t, NewUserService(db).Delete(ctx, author.ID), ErrNotFound)
}

func TestTokenIssueResolveRevoke(t *testing.T) {
	store := newMemoryStore()
	cfg := config.Default()
	svc := NewTokenService(store, cfg)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	again, err := svc.Issue(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, tok, again)

	other, err := svc.Issue(ctx, 8)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	uid, err := svc.Resolve(ctx, tok)
	require.NoError(t, err)
	require.EqualValues(t, 7, uid)

	_, err = svc.Resolve(ctx, "nope")
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Revoke(ctx, 7))
	_, err = svc.Resolve(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.NoError(t, svc.Revoke(ctx, 7))

	fresh, err := svc.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEqual(t, tok, fresh)
}

func TestLogServiceWritesAuditRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewLogService(db)
	uid := uint64(3)
	svc.Write(context.Background(), "INFO", "USER_REGISTERED", &uid, "user registered", "127.0.0.1")

	var rec storage.AuditLog
	require.NoError(t, db.First(&rec).Error)
	require.Equal(t, "USER_REGISTERED", rec.Event)
	require.NotNil(t, rec.UserID)
	require.EqualValues(t, 3, *rec.UserID)
	require.Empty(t, rec.RequestID)
}
