package contact_test

import (
	"testing"

	"github.com/plus3/bounce/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerEndToEnd(t *testing.T) {
	const a, b uint64 = 1, 2
	tracker := contact.NewTracker[uint64]()
	tracker.Track(a)

	// tick 1
	tracker.RecordContact(a, b, 0.9)
	assert.True(t, tracker.HasNewCollisionsAndAdvance(a))

	records := tracker.Records(a)
	require.Len(t, records, 1)
	assert.Equal(t, contact.Ending, records[0].Status)

	// tick 2: the unrefreshed Ending record is dropped
	assert.False(t, tracker.HasNewCollisionsAndAdvance(a))
	assert.Empty(t, tracker.Records(a))

	// tick 3
	assert.False(t, tracker.HasNewCollisionsAndAdvance(a))
	assert.Empty(t, tracker.Records(a))
	assert.True(t, tracker.Tracked(a))
}

func TestTrackerUnknownSelf(t *testing.T) {
	tracker := contact.NewTracker[int]()

	tracker.RecordContact(5, 6, 0.9)
	assert.False(t, tracker.Tracked(5))
	assert.False(t, tracker.HasNewCollisionsAndAdvance(5))
	assert.Nil(t, tracker.Records(5))

	ok, err := tracker.Advance(5)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackerIngestRecordsBothSides(t *testing.T) {
	tracker := contact.NewTracker[int]()
	tracker.Track(1)
	tracker.Track(2)
	tracker.Track(3)

	tracker.Ingest([]contact.Event[int]{
		{A: 1, B: 2, Impulse: 0.9},
		{A: 3, B: 9, Impulse: 0.2},
		{A: 1, B: 2, Impulse: 0.1},
	})

	assert.Equal(t, []contact.Record[int]{{Other: 2, Status: contact.Entering}}, tracker.Records(1))
	assert.Equal(t, []contact.Record[int]{{Other: 1, Status: contact.Entering}}, tracker.Records(2))
	assert.Equal(t, []contact.Record[int]{{Other: 9, Status: contact.Continuing}}, tracker.Records(3))

	assert.True(t, tracker.HasNewCollisionsAndAdvance(1))
	assert.True(t, tracker.HasNewCollisionsAndAdvance(2))
	assert.False(t, tracker.HasNewCollisionsAndAdvance(3))
}

func TestTrackerThreshold(t *testing.T) {
	tracker := contact.NewTracker[int](contact.WithThreshold(2), contact.WithCapacity(8))
	tracker.Track(1)

	assert.Equal(t, 2.0, tracker.Threshold())
	tracker.RecordContact(1, 2, 1.5)
	assert.False(t, tracker.HasNewCollisionsAndAdvance(1))
}

func TestTrackerAdvanceGuard(t *testing.T) {
	tracker := contact.NewTracker[int]()
	tracker.Track(1)
	tracker.RecordContact(1, 2, 0.9)

	ok, err := tracker.Advance(1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tracker.Advance(1)
	assert.ErrorIs(t, err, contact.ErrAlreadyAdvanced)
	assert.False(t, ok)
	// The rejected call must not age the record.
	require.Len(t, tracker.Records(1), 1)
	assert.Equal(t, contact.Ending, tracker.Records(1)[0].Status)

	tracker.BeginTick()
	ok, err = tracker.Advance(1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, tracker.Records(1))
}

func TestTrackerTrackUntrack(t *testing.T) {
	tracker := contact.NewTracker[int]()
	tracker.Track(1)
	tracker.RecordContact(1, 2, 0.1)
	tracker.Track(1)
	assert.Len(t, tracker.Records(1), 1)
	assert.Equal(t, 1, tracker.Len())

	tracker.Untrack(1)
	assert.False(t, tracker.Tracked(1))
	assert.Equal(t, 0, tracker.Len())

	tracker.Track(4)
	tracker.Reset()
	assert.Equal(t, 0, tracker.Len())
}
