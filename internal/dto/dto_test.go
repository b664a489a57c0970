package dto

import (
	"strings"
	"testing"

	"shareit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUserCreate(t *testing.T) {
	var u UserCreate
	require.NoError(t, Decode(strings.NewReader(`{"name":"Ann","email":"ann@example.com"}`), &u))
	assert.Equal(t, "Ann", u.Model().Name)

	err := Decode(strings.NewReader(`{"name":"Ann","email":"not-an-email"}`), &UserCreate{})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "email must be a valid email")

	err = Decode(strings.NewReader(`{"name":"   ","email":"ann@example.com"}`), &UserCreate{})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "name must not be blank")

	err = Decode(strings.NewReader(`{"name":`), &UserCreate{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDecodeUserUpdate(t *testing.T) {
	var u UserUpdate
	require.NoError(t, Decode(strings.NewReader(`{"email":"new@example.com"}`), &u))
	patch := u.Patch()
	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.Email)
	assert.Equal(t, "new@example.com", *patch.Email)

	assert.ErrorIs(t, Decode(strings.NewReader(`{"email":"nope"}`), &UserUpdate{}), domain.ErrBadRequest)
	assert.ErrorIs(t, Decode(strings.NewReader(`{"name":""}`), &UserUpdate{}), domain.ErrBadRequest)
}

func TestDecodeItemCreate(t *testing.T) {
	var i ItemCreate
	require.NoError(t, Decode(strings.NewReader(`{"name":"Drill","description":"Cordless","available":false,"requestId":3}`), &i))
	m := i.Model()
	assert.False(t, m.Available)
	require.NotNil(t, m.RequestID)
	assert.Equal(t, int64(3), *m.RequestID)

	err := Decode(strings.NewReader(`{"name":"Drill","description":"Cordless"}`), &ItemCreate{})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "available is required")

	err = Decode(strings.NewReader(`{"name":"Drill","description":"Cordless","available":true,"requestId":0}`), &ItemCreate{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDecodeItemUpdate(t *testing.T) {
	var i ItemUpdate
	require.NoError(t, Decode(strings.NewReader(`{"available":true}`), &i))
	patch := i.Patch()
	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.Available)
	assert.True(t, *patch.Available)

	assert.ErrorIs(t, Decode(strings.NewReader(`{"description":" "}`), &ItemUpdate{}), domain.ErrBadRequest)
}

func TestDecodeBookingCreate(t *testing.T) {
	var b BookingCreate
	require.NoError(t, Decode(strings.NewReader(`{"itemId":1,"start":"2030-01-01T10:00:00","end":"2030-01-02T10:00:00"}`), &b))
	assert.True(t, b.End.Time().After(b.Start.Time()))

	err := Decode(strings.NewReader(`{"itemId":1,"start":"2030-01-01T10:00:00"}`), &BookingCreate{})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "end is required")

	assert.ErrorIs(t, Decode(strings.NewReader(`{"start":"2030-01-01T10:00:00","end":"2030-01-02T10:00:00"}`), &BookingCreate{}), domain.ErrBadRequest)
	assert.ErrorIs(t, Decode(strings.NewReader(`{"itemId":1,"start":"soon","end":"later"}`), &BookingCreate{}), domain.ErrBadRequest)
}

func TestDecodeTextBodies(t *testing.T) {
	assert.NoError(t, Decode(strings.NewReader(`{"text":"Nice"}`), &CommentCreate{}))
	assert.ErrorIs(t, Decode(strings.NewReader(`{"text":""}`), &CommentCreate{}), domain.ErrBadRequest)
	assert.NoError(t, Decode(strings.NewReader(`{"description":"Need a tent"}`), &RequestCreate{}))
	assert.ErrorIs(t, Decode(strings.NewReader(`{}`), &RequestCreate{}), domain.ErrBadRequest)
}
