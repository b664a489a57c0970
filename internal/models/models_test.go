package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingState(t *testing.T) {
	tests := []struct {
		raw  string
		want BookingState
	}{
		{"ALL", StateAll},
		{"all", StateAll},
		{"", StateAll},
		{"Current", StateCurrent},
		{"past", StatePast},
		{"FUTURE", StateFuture},
		{"waiting", StateWaiting},
		{" rejected ", StateRejected},
	}
	for _, tt := range tests {
		got, err := ParseBookingState(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseBookingState("UNSUPPORTED_STATUS")
	require.Error(t, err)
	var stateErr *UnknownStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", err.Error())
}

func TestBookingStateMatches(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := &Booking{Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour), Status: StatusApproved}
	current := &Booking{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: StatusWaiting}
	future := &Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusRejected}
	edge := &Booking{Start: now, End: now, Status: StatusWaiting}

	assert.True(t, StatePast.Matches(past, now))
	assert.False(t, StatePast.Matches(current, now))

	assert.True(t, StateCurrent.Matches(current, now))
	assert.True(t, StateCurrent.Matches(edge, now))
	assert.False(t, StateCurrent.Matches(future, now))

	assert.True(t, StateFuture.Matches(future, now))
	assert.False(t, StateFuture.Matches(edge, now))

	assert.True(t, StateWaiting.Matches(current, now))
	assert.True(t, StateRejected.Matches(future, now))
	assert.True(t, StateAll.Matches(past, now))
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, StatusWaiting.Valid())
	assert.True(t, StatusCanceled.Valid())
	assert.False(t, BookingStatus("PENDING").Valid())
}

func TestPage(t *testing.T) {
	assert.Equal(t, 0, Page{From: 0, Size: 10}.Offset())
	assert.Equal(t, 0, Page{From: 5, Size: 10}.Offset())
	assert.Equal(t, 10, Page{From: 10, Size: 10}.Offset())
	assert.Equal(t, 20, Page{From: 29, Size: 10}.Offset())
	assert.Equal(t, 4, Page{From: 5, Size: 2}.Offset())
	assert.Equal(t, 0, Page{From: 5, Size: 0}.Offset())

	assert.True(t, Page{From: 0, Size: 1}.Valid())
	assert.False(t, Page{From: -1, Size: 1}.Valid())
	assert.False(t, Page{From: 0, Size: 0}.Valid())
}

func TestPatches(t *testing.T) {
	name := "New"
	u := User{ID: 1, Name: "Old", Email: "old@example.com"}
	u.Apply(UserPatch{Name: &name})
	assert.Equal(t, "New", u.Name)
	assert.Equal(t, "old@example.com", u.Email)

	available := false
	item := Item{Name: "Drill", Description: "Cordless", Available: true}
	item.Apply(ItemPatch{Available: &available})
	assert.Equal(t, "Drill", item.Name)
	assert.False(t, item.Available)
}

func TestBookingIsParty(t *testing.T) {
	b := &Booking{BookerID: 2, Item: Item{OwnerID: 1}}
	assert.True(t, b.IsParty(1))
	assert.True(t, b.IsParty(2))
	assert.False(t, b.IsParty(3))
}

func TestDateTimeJSON(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := json.Marshal(NewDateTime(ts))
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-02T03:04:05"`, string(data))

	var decoded DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02T03:04:05"`), &decoded))
	assert.True(t, ts.Equal(decoded.Time()))

	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02T06:04:05+03:00"`), &decoded))
	assert.True(t, ts.Equal(decoded.Time()))

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`12`), &decoded))
}
