package timer

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/chime/internal/testutil"
	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/store"
)

const waitTimeout = 2 * time.Second

var epoch = time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

type fixture struct {
	doc   *store.Document
	rec   *testutil.Recorder
	clock clockwork.FakeClock
	timer *Countdown
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc := store.New(store.NewJSONFile(afero.NewMemMapFs(), "/settings.json"))
	require.NoError(t, doc.Read())

	f := &fixture{
		doc:   doc,
		rec:   testutil.NewRecorder(),
		clock: clockwork.NewFakeClockAt(epoch),
	}

	f.timer = New(doc, f.rec, f.clock, Options{})

	t.Cleanup(f.timer.Halt)

	return f
}

// advance moves the clock one poll period forward once the monitor is
// waiting on it.
func (f *fixture) advance(d time.Duration) {
	f.clock.BlockUntil(1)
	f.clock.Advance(d)
}

func (f *fixture) seconds() []float64 {
	var out []float64

	for _, e := range f.rec.Named(notify.EventSecondsUpdated) {
		out = append(out, e.Args[0].(float64))
	}

	return out
}

func (f *fixture) timerEnd(t *testing.T) (float64, bool) {
	t.Helper()

	var end float64

	found, err := f.doc.Get(store.KeyTimerEnd, &end)
	require.NoError(t, err)

	return end, found
}

func TestStartRejectsInvalidDurations(t *testing.T) {
	f := newFixture(t)

	for _, d := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		err := f.timer.Start(d)
		assert.ErrorIs(t, err, ErrInvalidDuration, "duration %v", d)
	}

	assert.Empty(t, f.rec.Events())
	assert.Empty(t, f.timer.Recents())
}

func TestRecentsLimit(t *testing.T) {
	f := newFixture(t)

	for _, d := range []float64{60, 120, 180, 240, 300, 360} {
		require.NoError(t, f.timer.Start(d))
	}

	assert.Equal(t, []float64{360, 300, 240, 180, 120}, f.timer.Recents())

	refreshes := f.rec.Named(notify.EventRefreshRecents)
	require.Len(t, refreshes, 6)
	assert.Equal(t, []float64{360, 300, 240, 180, 120}, refreshes[5].Args[0])
}

func TestRecentsCustomLimit(t *testing.T) {
	f := newFixture(t)
	f.timer = New(f.doc, f.rec, f.clock, Options{RecentsLimit: 2})

	for _, d := range []float64{10, 20, 30} {
		require.NoError(t, f.timer.Start(d))
	}

	assert.Equal(t, []float64{30, 20}, f.timer.Recents())

	f.timer.Halt()
}

func TestStartPersistsEnd(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.timer.Start(300))

	assert.InDelta(t, 300, f.timer.Remaining(), 0.001)

	end, found := f.timerEnd(t)
	require.True(t, found)
	assert.InDelta(t, timeutil.Epoch(epoch)+300, end, 0.001)

	assert.Equal(t, []float64{300}, f.seconds())
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)

	f.timer.Cancel()
	f.timer.Cancel()

	assert.Equal(t, []float64{0, 0}, f.seconds())

	_, found := f.timerEnd(t)
	assert.False(t, found)

	require.NoError(t, f.timer.Start(30))
	f.timer.Cancel()

	_, found = f.timerEnd(t)
	assert.False(t, found)
	assert.Zero(t, f.timer.Remaining())

	f.clock.Advance(time.Minute)

	assert.Empty(t, f.rec.Named(notify.EventTimer))
	assert.Equal(t, []float64{0, 0, 30, 0}, f.seconds())
}

func TestHaltKeepsPersistedEnd(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.timer.Start(90))
	f.timer.Halt()

	end, found := f.timerEnd(t)
	require.True(t, found)
	assert.InDelta(t, timeutil.Epoch(epoch)+90, end, 0.001)
	assert.Equal(t, []float64{90, 0}, f.seconds())
}

func TestCountdownToCompletion(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.doc.Set(store.KeySubtleMode, true))
	require.NoError(t, f.timer.Start(12))

	f.advance(DefaultPollInterval)
	f.advance(DefaultPollInterval)
	f.advance(DefaultPollInterval)

	events := f.rec.WaitFor(t, notify.EventTimer, 1, waitTimeout)

	assert.Equal(t, []any{msgSessionEnded, true}, events[0].Args)
	assert.Equal(t, []float64{12, 7, 2, 0}, f.seconds())

	all := f.rec.Events()
	assert.Equal(t, notify.EventSecondsUpdated, all[len(all)-2].Event)
	assert.Equal(t, notify.EventTimer, all[len(all)-1].Event)

	_, found := f.timerEnd(t)
	assert.False(t, found)
}

func TestOverrunBoundary(t *testing.T) {
	testCases := []struct {
		name    string
		advance time.Duration
		msg     string
		subtle  bool
	}{
		{
			name:    "exactly at threshold expires",
			advance: 15 * time.Second,
			msg:     msgTimerExpired,
			subtle:  true,
		},
		{
			name:    "within threshold completes",
			advance: 14 * time.Second,
			msg:     msgSessionEnded,
			subtle:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			require.NoError(t, f.timer.Start(5))

			f.advance(tc.advance)

			events := f.rec.WaitFor(t, notify.EventTimer, 1, waitTimeout)
			require.Len(t, events, 1)

			assert.Equal(t, []any{tc.msg, tc.subtle}, events[0].Args)
			assert.Equal(t, []float64{5, 0}, f.seconds())

			_, found := f.timerEnd(t)
			assert.False(t, found)
		})
	}
}

func TestStartReplacesRunningTimer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.timer.Start(5))
	require.NoError(t, f.timer.Start(600))

	end, found := f.timerEnd(t)
	require.True(t, found)
	assert.InDelta(t, timeutil.Epoch(epoch)+600, end, 0.001)

	f.clock.Advance(10 * time.Second)

	assert.InDelta(t, 590, f.timer.Remaining(), 0.001)
	assert.Empty(t, f.rec.Named(notify.EventTimer))
	assert.Equal(t, []float64{600, 5}, f.timer.Recents())
}

func TestRecoverResumesRunningTimer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.doc.Set(store.KeyTimerEnd, timeutil.Epoch(epoch)+120))

	require.NoError(t, f.timer.Recover())

	assert.InDelta(t, 120, f.timer.Remaining(), 0.001)

	recents := f.timer.Recents()
	require.Len(t, recents, 1)
	assert.InDelta(t, 120, recents[0], 0.001)

	end, found := f.timerEnd(t)
	require.True(t, found)
	assert.InDelta(t, timeutil.Epoch(epoch)+120, end, 0.001)
}

func TestRecoverDiscardsEndedTimer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.doc.Set(store.KeyTimerEnd, timeutil.Epoch(epoch)-30))

	require.NoError(t, f.timer.Recover())

	assert.Zero(t, f.timer.Remaining())
	assert.Empty(t, f.rec.Named(notify.EventTimer))
	assert.Empty(t, f.timer.Recents())
	assert.Equal(t, []float64{0}, f.seconds())

	_, found := f.timerEnd(t)
	assert.False(t, found)
}

func TestRecoverWithoutTimer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.timer.Recover())
	assert.Empty(t, f.rec.Events())
}

func TestLoadEmitters(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.doc.Set(store.KeyRecentTimers, []float64{300, 60}))

	f.timer.LoadRecents()
	f.timer.LoadRemaining()

	assert.Equal(t, []testutil.Emission{
		{Event: notify.EventRefreshRecents, Args: []any{[]float64{300, 60}}},
		{Event: notify.EventSecondsUpdated, Args: []any{0.0}},
	}, f.rec.Events())
}
