package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"beautycenter/internal/storage"
)

func TestCommentCreateRequiresResolvableCenter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "ivan")
	svc := NewCommentService(db)

	err := svc.Create(ctx, u.ID, &storage.Comment{Content: "ok", Mark: 4}, nil)
	require.ErrorIs(t, err, storage.ErrRequiredField)

	missing := uuid.New()
	err = svc.Create(ctx, u.ID, &storage.Comment{Content: "ok", Mark: 4}, &missing)
	require.ErrorIs(t, err, storage.ErrInvalidField)
	require.EqualValues(t, 0, count(t, db, &storage.Comment{}, ""))
}

func TestCommentCreateSetsAuthorAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "ivan")
	c := mustCenter(t, db, "Lotus")
	svc := NewCommentService(db)

	cid := c.ID
	cm := &storage.Comment{Content: "lovely", Mark: 4.5, UserID: 999}
	require.NoError(t, svc.Create(ctx, u.ID, cm, &cid))
	require.Equal(t, u.ID, cm.UserID)
	require.Equal(t, c.ID, cm.CenterID)
	require.NotNil(t, cm.User)
	require.Equal(t, "ivan", cm.User.Username)
	require.False(t, cm.CreatedAt.IsZero())

	bad := &storage.Comment{Content: "meh", Mark: 6}
	require.ErrorIs(t, svc.Create(ctx, u.ID, bad, &cid), storage.ErrOutOfRange)
}

func TestCommentUpdatePreservesCenterWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "ivan")
	c := mustCenter(t, db, "Lotus")
	other := mustCenter(t, db, "Iris")
	svc := NewCommentService(db)

	cid := c.ID
	cm := &storage.Comment{Content: "fine", Mark: 3}
	require.NoError(t, svc.Create(ctx, u.ID, cm, &cid))
	created := cm.CreatedAt

	time.Sleep(5 * time.Millisecond)
	out, err := svc.Update(ctx, cm.ID, "better now", 5, nil)
	require.NoError(t, err)
	require.Equal(t, c.ID, out.CenterID)

	got, err := svc.Get(ctx, cm.ID)
	require.NoError(t, err)
	require.Equal(t, "better now", got.Content)
	require.Equal(t, 5.0, got.Mark)
	require.Equal(t, c.ID, got.CenterID)
	require.Equal(t, u.ID, got.UserID)
	require.WithinDuration(t, created, got.CreatedAt, time.Millisecond)

	oid := other.ID
	out, err = svc.Update(ctx, cm.ID, "moved", 2, &oid)
	require.NoError(t, err)
	require.Equal(t, other.ID, out.CenterID)

	missing := uuid.New()
	_, err = svc.Update(ctx, cm.ID, "moved", 2, &missing)
	require.ErrorIs(t, err, storage.ErrInvalidField)
	_, err = svc.Update(ctx, uuid.New(), "x", 2, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentListByCenterOrderedByMark(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "ivan")
	c := mustCenter(t, db, "Lotus")
	other := mustCenter(t, db, "Iris")
	svc := NewCommentService(db)

	cid, oid := c.ID, other.ID
	require.NoError(t, svc.Create(ctx, u.ID, &storage.Comment{Content: "b", Mark: 5}, &cid))
	require.NoError(t, svc.Create(ctx, u.ID, &storage.Comment{Content: "a", Mark: 2}, &cid))
	require.NoError(t, svc.Create(ctx, u.ID, &storage.Comment{Content: "c", Mark: 3}, &oid))

	list, err := svc.ListByCenter(ctx, c.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 2.0, list[0].Mark)
	require.Equal(t, 5.0, list[1].Mark)
	require.Equal(t, "ivan", list[0].User.Username)

	_, err = svc.ListByCenter(ctx, uuid.New(), Page{})
	require.ErrorIs(t, err, ErrNotFound)

	all, err := svc.List(ctx, Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCommentDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "ivan")
	c := mustCenter(t, db, "Lotus")
	svc := NewCommentService(db)

	cid := c.ID
	cm := &storage.Comment{Content: "x", Mark: 1}
	require.NoError(t, svc.Create(ctx, u.ID, cm, &cid))
	require.NoError(t, svc.Delete(ctx, cm.ID))
	require.ErrorIs(t, svc.Delete(ctx, cm.ID), ErrNotFound)
}
