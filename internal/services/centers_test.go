package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"beautycenter/internal/storage"
)

func TestCenterCreateWithNestedAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)
	ctx := context.Background()

	c := &storage.Center{Name: "Lotus", Phone: "+79991234567"}
	a := &storage.Address{Street: "Nevsky", City: "Saint Petersburg", State: "SPB", Number: 28}
	require.NoError(t, svc.Create(ctx, c, a))

	require.NotEqual(t, uuid.Nil, c.ID)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.Equal(t, a.ID, c.AddressID)
	require.EqualValues(t, 1, count(t, db, &storage.Address{}, ""))
	require.EqualValues(t, 1, count(t, db, &storage.Center{}, ""))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Address)
	require.Equal(t, "Nevsky", got.Address.Street)
	require.Equal(t, 28, got.Address.Number)
}

func TestCenterCreateInvalidAddressPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)

	c := &storage.Center{Name: "Lotus", Phone: "+79991234567"}
	a := &storage.Address{Street: "Nevsky", City: "Saint Petersburg", State: "SPB", Number: -5}
	err := svc.Create(context.Background(), c, a)
	require.ErrorIs(t, err, storage.ErrInvalidField)
	require.EqualValues(t, 0, count(t, db, &storage.Address{}, ""))
	require.EqualValues(t, 0, count(t, db, &storage.Center{}, ""))

	require.ErrorIs(t, svc.Create(context.Background(), c, nil), storage.ErrRequiredField)
}

func TestCenterCreateInvalidPhonePersistsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)

	c := &storage.Center{Name: "Lotus", Phone: "1234567890"}
	a := &storage.Address{Street: "Nevsky", City: "Saint Petersburg", State: "SPB", Number: 1}
	require.ErrorIs(t, svc.Create(context.Background(), c, a), storage.ErrInvalidFormat)
	require.EqualValues(t, 0, count(t, db, &storage.Address{}, ""))
}

func TestCenterCreateRollsBackAddressWhenCenterInsertFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)
	existing := mustCenter(t, db, "First")

	// 复用已有主键，使中心插入在地址写入之后失败
	dup := &storage.Center{Record: storage.Record{ID: existing.ID}, Name: "Second", Phone: "+79991234567"}
	a := &storage.Address{Street: "Arbat", City: "Moscow", State: "MO", Number: 3}
	require.Error(t, svc.Create(context.Background(), dup, a))

	require.EqualValues(t, 1, count(t, db, &storage.Address{}, ""))
	require.EqualValues(t, 0, count(t, db, &storage.Address{}, "street = ?", "Arbat"))
	require.EqualValues(t, 1, count(t, db, &storage.Center{}, ""))
}

func TestCenterCreateWithAddressID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	addrs := NewAddressService(db)
	svc := NewCenterService(db)

	a := &storage.Address{Street: "Arbat", City: "Moscow", State: "MO", Number: 3}
	require.NoError(t, addrs.Create(ctx, a))

	c := &storage.Center{Name: "Iris", Phone: "81234567890"}
	require.NoError(t, svc.CreateWithAddressID(ctx, c, a.ID))
	require.Equal(t, a.ID, c.AddressID)

	// 同一地址不能被第二个中心占用
	other := &storage.Center{Name: "Rose", Phone: "81234567890"}
	require.ErrorIs(t, svc.CreateWithAddressID(ctx, other, a.ID), storage.ErrInvalidField)
	require.ErrorIs(t, svc.CreateWithAddressID(ctx, other, uuid.New()), storage.ErrInvalidField)
	require.EqualValues(t, 1, count(t, db, &storage.Center{}, ""))
}

func TestCenterUpdateMergesAddressInPlace(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)
	ctx := context.Background()
	c := mustCenter(t, db, "Lotus")
	addrID := c.AddressID

	city := "Kazan"
	num := 42
	out, err := svc.Update(ctx, c.ID, CenterPatch{
		Name:    "Lotus Spa",
		Phone:   "+79990000000",
		Address: &AddressPatch{City: &city, Number: &num},
	})
	require.NoError(t, err)
	require.Equal(t, addrID, out.Address.ID)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Lotus Spa", got.Name)
	require.Equal(t, "+79990000000", got.Phone)
	require.Equal(t, addrID, got.AddressID)
	require.Equal(t, "Kazan", got.Address.City)
	require.Equal(t, 42, got.Address.Number)
	require.Equal(t, "Tverskaya", got.Address.Street)
	require.EqualValues(t, 1, count(t, db, &storage.Address{}, ""))
}

func TestCenterUpdateWithoutAddressLeavesItUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)
	ctx := context.Background()
	c := mustCenter(t, db, "Lotus")

	_, err := svc.Update(ctx, c.ID, CenterPatch{Name: "Renamed", Phone: "+71234567890"})
	require.NoError(t, err)
	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, "Tverskaya", got.Address.Street)
	require.Equal(t, 1, got.Address.Number)
}

func TestCenterUpdateInvalidAddressRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewCenterService(db)
	ctx := context.Background()
	c := mustCenter(t, db, "Lotus")

	neg := -1
	_, err := svc.Update(ctx, c.ID, CenterPatch{Name: "Renamed", Phone: "+71234567890", Address: &AddressPatch{Number: &neg}})
	require.ErrorIs(t, err, storage.ErrInvalidField)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Lotus", got.Name)
	require.Equal(t, 1, got.Address.Number)

	_, err = svc.Update(ctx, uuid.New(), CenterPatch{Name: "x", Phone: "+71234567890"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCenterDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCenter(t, db, "Lotus")
	keep := mustCenter(t, db, "Other")
	s := mustService(t, db, "Haircut")
	u := mustUser(t, db, "olga")

	offerings := NewOfferingService(db)
	require.NoError(t, offerings.Create(ctx, &storage.CenterService{CenterID: c.ID, ServiceID: s.ID, Description: "daily"}))
	require.NoError(t, offerings.Create(ctx, &storage.CenterService{CenterID: keep.ID, ServiceID: s.ID, Description: "daily"}))
	comments := NewCommentService(db)
	cid := c.ID
	require.NoError(t, comments.Create(ctx, u.ID, &storage.Comment{Content: "great", Mark: 5}, &cid))

	require.NoError(t, NewCenterService(db).Delete(ctx, c.ID))

	require.EqualValues(t, 0, count(t, db, &storage.Center{}, "id = ?", c.ID))
	require.EqualValues(t, 0, count(t, db, &storage.Address{}, "id = ?", c.AddressID))
	require.EqualValues(t, 0, count(t, db, &storage.Comment{}, "center_id = ?", c.ID))
	require.EqualValues(t, 0, count(t, db, &storage.CenterService{}, "center_id = ?", c.ID))
	require.EqualValues(t, 1, count(t, db, &storage.CenterService{}, ""))
	require.EqualValues(t, 1, count(t, db, &storage.Service{}, ""))
	require.EqualValues(t, 1, count(t, db, &storage.Address{}, ""))

	require.ErrorIs(t, NewCenterService(db).Delete(ctx, c.ID), ErrNotFound)
}

func TestCenterOfferingsAggregatesJoinRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustCenter(t, db, "A")
	b := mustCenter(t, db, "B")
	cut := mustService(t, db, "Haircut")
	dye := mustService(t, db, "Coloring")

	offerings := NewOfferingService(db)
	for _, cs := range []storage.CenterService{
		{CenterID: a.ID, ServiceID: cut.ID, Description: "men"},
		{CenterID: a.ID, ServiceID: dye.ID, Description: "all"},
		{CenterID: b.ID, ServiceID: cut.ID, Description: "women"},
	} {
		cs := cs
		require.NoError(t, offerings.Create(ctx, &cs))
	}

	byCenter, err := NewCenterService(db).Offerings(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, byCenter[a.ID], 2)
	require.Len(t, byCenter[b.ID], 1)
	names := []string{byCenter[a.ID][0].Service.Name, byCenter[a.ID][1].Service.Name}
	require.ElementsMatch(t, []string{"Haircut", "Coloring"}, names)

	empty, err := NewCenterService(db).Offerings(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)
}
