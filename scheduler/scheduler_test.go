package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/chime/internal/testutil"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/store"
)

const settingsPath = "/chime/settings.json"

func at(day, hour, minute, sec int) time.Time {
	return time.Date(2025, 3, day, hour, minute, sec, 0, time.Local)
}

type fixture struct {
	doc   *store.Document
	rec   *testutil.Recorder
	sched *Scheduler
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	doc := store.New(store.NewJSONFile(afero.NewMemMapFs(), settingsPath))
	require.NoError(t, doc.Read())

	rec := testutil.NewRecorder()

	return &fixture{
		doc:   doc,
		rec:   rec,
		sched: New(doc, rec, clockwork.NewFakeClock(), opts),
	}
}

func labels(firings []Firing) []string {
	out := []string{}

	for _, f := range firings {
		out = append(out, f.Label)
	}

	return out
}

func TestWindowContains(t *testing.T) {
	testCases := []struct {
		name     string
		window   Window
		minute   int
		expected bool
	}{
		{"start is inclusive", Window{21 * 60, 23 * 60}, 21 * 60, true},
		{"inside", Window{21 * 60, 23 * 60}, 22*60 + 30, true},
		{"end is exclusive", Window{21 * 60, 23 * 60}, 23 * 60, false},
		{"before start", Window{21 * 60, 23 * 60}, 20*60 + 59, false},
		{"crossing midnight late evening", Window{22 * 60, 2 * 60}, 23*60 + 30, true},
		{"crossing midnight at midnight", Window{22 * 60, 2 * 60}, 0, true},
		{"crossing midnight early morning", Window{22 * 60, 2 * 60}, 60 + 59, true},
		{"crossing midnight end is exclusive", Window{22 * 60, 2 * 60}, 2 * 60, false},
		{"crossing midnight afternoon", Window{22 * 60, 2 * 60}, 12 * 60, false},
		{"empty window", Window{8 * 60, 8 * 60}, 8 * 60, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.window.Contains(tc.minute))
		})
	}
}

func TestIntervalRate(t *testing.T) {
	c := IntervalConfig{
		StartHour: 22,
		EndHour:   2,
		Every:     5,
		LateEvery: 15,
		Enabled:   true,
	}

	assert.Equal(t, 240, c.Window().Len())
	assert.Equal(t, 5, c.Rate(23*60+55))
	assert.Equal(t, 15, c.Rate(0))
	assert.True(t, c.Due(23*60+5))
	assert.False(t, c.Due(0*60+5))
	assert.True(t, c.Due(0*60+15))

	c.LateEvery = 0
	assert.Equal(t, 5, c.Rate(60))
}

func TestAlarmFiresOncePerDay(t *testing.T) {
	f := newFixture(t, Options{})

	firings, err := f.sched.Check(at(1, 21, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"Daily Alarm 1"}, labels(firings))
	assert.Equal(t, "2025-03-01", firings[0].Key)

	firings, err = f.sched.Check(at(1, 21, 0, 40))
	require.NoError(t, err)
	assert.Empty(t, firings)

	firings, err = f.sched.Check(at(2, 21, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"Daily Alarm 1"}, labels(firings))

	alarms, err := f.sched.Alarms()
	require.NoError(t, err)
	require.NotNil(t, alarms["alarm_1"].LastTriggered)
	assert.Equal(t, "2025-03-02", *alarms["alarm_1"].LastTriggered)
	assert.Nil(t, alarms["alarm_2"].LastTriggered)

	events := f.rec.Named(notify.EventTimer)
	require.Len(t, events, 2)
	assert.Equal(t, []any{"Daily Alarm 1", false}, events[0].Args)
}

func TestAlarmsSharingAMinuteFireIndependently(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.doc.Set(store.KeySubtleMode, true))
	require.NoError(t, f.sched.SetAlarm(3, 21, 0))
	require.NoError(t, f.sched.SetAlarmLabel(3, "Stretch"))
	require.NoError(t, f.sched.SetAlarm(2, 21, 0))
	require.NoError(t, f.sched.ToggleAlarm(2, false))

	firings, err := f.sched.Check(at(1, 21, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Daily Alarm 1", "Stretch"}, labels(firings))

	want := []testutil.Emission{
		{Event: notify.EventTimer, Args: []any{"Daily Alarm 1", true}},
		{Event: notify.EventTimer, Args: []any{"Stretch", true}},
	}

	if diff := cmp.Diff(want, f.rec.Events()); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestSetAlarmResetsDedupKey(t *testing.T) {
	f := newFixture(t, Options{})

	firings, err := f.sched.Check(at(1, 21, 0, 0))
	require.NoError(t, err)
	require.Len(t, firings, 1)

	require.NoError(t, f.sched.SetAlarm(1, 21, 0))

	firings, err = f.sched.Check(at(1, 21, 0, 30))
	require.NoError(t, err)
	assert.Len(t, firings, 1)
}

func TestAlarmSlotsNaturalOrder(t *testing.T) {
	f := newFixture(t, Options{AlarmSlots: 11})

	for slot := 1; slot <= 11; slot++ {
		require.NoError(t, f.sched.SetAlarm(slot, 7, 30))
	}

	alarms, err := f.sched.Alarms()
	require.NoError(t, err)

	slots := alarms.Slots()
	require.Len(t, slots, 11)
	assert.Equal(t, "alarm_2", slots[1])
	assert.Equal(t, "alarm_10", slots[9])
	assert.Equal(t, "alarm_11", slots[10])

	firings, err := f.sched.Check(at(1, 7, 30, 0))
	require.NoError(t, err)
	require.Len(t, firings, 11)
	assert.Equal(t, "Daily Alarm 10", firings[9].Label)
}

func TestDefaultAlarms(t *testing.T) {
	f := newFixture(t, Options{AlarmSlots: 4})

	alarms, err := f.sched.Alarms()
	require.NoError(t, err)

	want := Alarms{
		"alarm_1": {Hour: 21, Enabled: true},
		"alarm_2": {Hour: 22, Enabled: true},
		"alarm_3": {Hour: 23, Enabled: true},
		"alarm_4": {},
	}

	if diff := cmp.Diff(want, alarms); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}

	// reading defaults does not write them
	assert.Equal(t, 0, f.doc.Len())
}

func TestIntervalCadence(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.sched.ToggleAlarm(1, false))
	require.NoError(t, f.sched.ToggleAlarm(2, false))
	require.NoError(t, f.sched.SetIntervalTimer(21, 0, 22, 0))

	testCases := []struct {
		now      time.Time
		expected []string
	}{
		{at(1, 20, 55, 0), []string{}},
		{at(1, 21, 0, 0), []string{"Reminder (21:00)"}},
		{at(1, 21, 0, 30), []string{}},
		{at(1, 21, 3, 0), []string{}},
		{at(1, 21, 5, 0), []string{"Reminder (21:05)"}},
		{at(1, 21, 55, 0), []string{"Reminder (21:55)"}},
		{at(1, 22, 0, 0), []string{}},
	}

	for _, tc := range testCases {
		firings, err := f.sched.Check(tc.now)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, labels(firings), "at %s", tc.now.Format(time.TimeOnly))
	}

	iv, err := f.sched.IntervalTimer()
	require.NoError(t, err)
	require.NotNil(t, iv.LastTriggeredSlot)
	assert.Equal(t, "2025-03-01_21:55", *iv.LastTriggeredSlot)
}

func TestIntervalLateRate(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.sched.SetIntervalTimer(20, 0, 22, 0))
	require.NoError(t, f.sched.SetIntervalRate(5, 15))

	var fired []string

	for m := 20 * 60; m < 22*60+10; m++ {
		firings, err := f.sched.Check(at(1, m/60, m%60, 0))
		require.NoError(t, err)

		for _, fr := range firings {
			if fr.Trigger == TriggerInterval {
				fired = append(fired, fr.Key[len("2025-03-01_"):])
			}
		}
	}

	assert.Len(t, fired, 12+4)
	assert.Equal(t, "20:55", fired[11])
	assert.Equal(t, []string{"21:00", "21:15", "21:30", "21:45"}, fired[12:])
}

func TestIntervalAcrossMidnight(t *testing.T) {
	f := newFixture(t, Options{IntervalEvery: 30})

	require.NoError(t, f.sched.SetIntervalTimer(23, 0, 1, 0))

	firings, err := f.sched.Check(at(2, 0, 30, 0))
	require.NoError(t, err)
	require.Len(t, firings, 1)
	assert.Equal(t, "2025-03-02_00:30", firings[0].Key)

	firings, err = f.sched.Check(at(2, 1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, firings)
}

func TestToggleIntervalTimer(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.sched.SetIntervalTimer(8, 0, 9, 0))
	require.NoError(t, f.sched.ToggleIntervalTimer(false))

	firings, err := f.sched.Check(at(1, 8, 30, 0))
	require.NoError(t, err)
	assert.Empty(t, firings)

	require.NoError(t, f.sched.ToggleIntervalTimer(true))

	firings, err = f.sched.Check(at(1, 8, 30, 0))
	require.NoError(t, err)
	assert.Len(t, firings, 1)
}

func TestPersistBeforeEmit(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := store.New(store.NewJSONFile(fs, settingsPath))

	var seen []string

	sink := notify.Func(func(event string, _ ...any) {
		b, err := afero.ReadFile(fs, settingsPath)
		require.NoError(t, err)

		var persisted struct {
			Alarms Alarms `json:"daily_alarms"`
		}

		require.NoError(t, json.Unmarshal(b, &persisted))

		last := persisted.Alarms["alarm_2"].LastTriggered
		require.NotNil(t, last, "dedup key must be committed before %s", event)

		seen = append(seen, *last)
	})

	sched := New(doc, sink, clockwork.NewFakeClock(), Options{})

	_, err := sched.Check(at(5, 22, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-05"}, seen)
}

type readOnlyBackend struct {
	store.Backend
}

func (readOnlyBackend) Save(map[string]json.RawMessage) error {
	return errors.New("read-only filesystem")
}

func TestCommitFailureStillFires(t *testing.T) {
	doc := store.New(readOnlyBackend{store.NewJSONFile(afero.NewMemMapFs(), settingsPath)})
	rec := testutil.NewRecorder()
	sched := New(doc, rec, clockwork.NewFakeClock(), Options{})

	firings, err := sched.Check(at(1, 23, 0, 0))
	require.Error(t, err)
	assert.Len(t, firings, 1)
	assert.Len(t, rec.Named(notify.EventTimer), 1)

	// the in-memory key still suppresses a second firing
	firings, _ = sched.Check(at(1, 23, 0, 30))
	assert.Empty(t, firings)
}

func TestMalformedAlarmsDoNotSilenceReminders(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.sched.SetIntervalTimer(21, 0, 22, 0))
	require.NoError(t, f.doc.Set(store.KeyDailyAlarms, []int{1, 2}))

	firings, err := f.sched.Check(at(1, 21, 0, 0))
	assert.ErrorIs(t, err, errLoadAlarms)
	assert.Equal(t, []string{"Reminder (21:00)"}, labels(firings))
	assert.Len(t, f.rec.Named(notify.EventTimer), 1)

	// the unreadable value is left for the user to fix
	var raw []int

	ok, err := f.doc.Get(store.KeyDailyAlarms, &raw)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, raw)
}

func TestMalformedIntervalDoesNotSilenceAlarms(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.doc.Set(store.KeyIntervalTimer, "09:00-17:00"))

	firings, err := f.sched.Check(at(1, 21, 0, 0))
	assert.ErrorIs(t, err, errLoadInterval)
	assert.NotErrorIs(t, err, errLoadAlarms)
	assert.Equal(t, []string{"Daily Alarm 1"}, labels(firings))

	firings, err = f.sched.Check(at(1, 21, 0, 30))
	assert.ErrorIs(t, err, errLoadInterval)
	assert.Empty(t, firings)
}

func TestSetterValidation(t *testing.T) {
	f := newFixture(t, Options{})

	assert.ErrorIs(t, f.sched.SetAlarm(0, 10, 0), ErrInvalidSlot)
	assert.ErrorIs(t, f.sched.SetAlarm(4, 10, 0), ErrInvalidSlot)
	assert.ErrorIs(t, f.sched.ToggleAlarm(9, true), ErrInvalidSlot)
	assert.ErrorIs(t, f.sched.SetAlarm(1, 24, 0), ErrInvalidTime)
	assert.ErrorIs(t, f.sched.SetAlarm(1, 10, 60), ErrInvalidTime)
	assert.ErrorIs(t, f.sched.SetIntervalTimer(-1, 0, 10, 0), ErrInvalidTime)
	assert.ErrorIs(t, f.sched.SetIntervalTimer(9, 0, 10, 75), ErrInvalidTime)
	assert.ErrorIs(t, f.sched.SetIntervalRate(0, 0), ErrInvalidRate)
	assert.ErrorIs(t, f.sched.SetIntervalRate(5, 721), ErrInvalidRate)

	assert.Equal(t, 0, f.doc.Len())
}

type panickingStore struct {
	store.Store
	calls atomic.Int32
}

func (p *panickingStore) Update(fn func(tx store.Tx) error) error {
	if p.calls.Add(1) == 1 {
		panic("corrupted state")
	}

	return p.Store.Update(fn)
}

func TestRunRecoversAndContinues(t *testing.T) {
	doc := store.New(store.NewJSONFile(afero.NewMemMapFs(), settingsPath))
	rec := testutil.NewRecorder()
	clock := clockwork.NewFakeClockAt(at(1, 21, 0, 0))

	sched := New(&panickingStore{Store: doc}, rec, clock, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- sched.Run(ctx)
	}()

	clock.BlockUntil(1)
	clock.Advance(DefaultPollInterval)

	events := rec.WaitFor(t, notify.EventTimer, 1, 2*time.Second)
	assert.Equal(t, []any{"Daily Alarm 1", false}, events[0].Args)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
