package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/chime/client"
	"github.com/ayoisaiah/chime/daemon"
	"github.com/ayoisaiah/chime/internal/config"
	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/internal/testutil"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/scheduler"
)

func init() {
	pterm.DisableColor()
}

type goldenOutput struct {
	name   string
	output []byte
}

func (g goldenOutput) Output() ([]byte, string) {
	return g.output, g.name
}

func TestParseClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		input  string
		hour   int
		minute int
	}{
		{"21:05", 21, 5},
		{"09:00", 9, 0},
		{"9:30pm", 21, 30},
		{"9:30 PM", 21, 30},
		{"7am", 7, 0},
		{"12am", 0, 0},
		{" 6 pm ", 18, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			hour, minute, err := parseClock(tc.input, now)
			require.NoError(t, err)
			assert.Equal(t, tc.hour, hour)
			assert.Equal(t, tc.minute, minute)
		})
	}

	_, _, err := parseClock("xyzzy", now)
	assert.ErrorIs(t, err, errParseTime)
}

func TestParseSlot(t *testing.T) {
	n, err := parseSlot("2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = parseSlot("alarm_11")
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	for _, bad := range []string{"", "0", "-1", "two"} {
		_, err := parseSlot(bad)
		assert.ErrorIs(t, err, errInvalidSlot, bad)
	}
}

func TestParseToggle(t *testing.T) {
	for _, s := range []string{"on", "ON", "true", "yes", "enable"} {
		v, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}

	for _, s := range []string{"off", "false", "no", "Disable"} {
		v, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}

	_, err := parseToggle("maybe")
	assert.ErrorIs(t, err, errInvalidToggle)
}

func TestWatchOutput(t *testing.T) {
	at := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	events := []client.Event{
		{Name: notify.EventSecondsUpdated, Args: []any{25.0}},
		{Name: notify.EventTimer, Args: []any{"Your session has ended!", true}},
		{Name: notify.EventTimer, Args: []any{"Daily Alarm 2", false}},
		{Name: notify.EventRefreshRecents, Args: []any{[]any{600.0, 90.0}}},
		{Name: notify.EventSubtleMode, Args: []any{false}},
		{Name: "custom", Args: []any{"x", 2.0}},
	}

	var buf bytes.Buffer

	for _, e := range events {
		printEvent(&buf, at, e)
	}

	testutil.CompareGoldenFile(t, goldenOutput{
		name:   "watch_events",
		output: buf.Bytes(),
	})
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer

	printStatus(&buf, daemon.Status{})
	assert.Contains(t, buf.String(), noTimerMsg)
	assert.Contains(t, buf.String(), "Subtle mode: off")
	assert.NotContains(t, buf.String(), "Recents:")

	buf.Reset()

	printStatus(&buf, daemon.Status{
		End:       time.Now().Add(90 * time.Second),
		Remaining: 90,
		Recents:   []float64{90, 1500},
		Subtle:    true,
	})

	out := buf.String()
	assert.Contains(t, out, "Remaining: 01:30")
	assert.Contains(t, out, "Subtle mode: on")
	assert.Contains(t, out, "Recents: 1m30s, 25m0s")
}

func TestPrintAlarmsTable(t *testing.T) {
	last := "2025-03-01"

	alarms := scheduler.Alarms{
		"alarm_10": {Hour: 7, Minute: 5},
		"alarm_2":  {Hour: 22, Enabled: true, LastTriggered: &last},
		"alarm_1":  {Hour: 21, Enabled: true, Label: "Stretch"},
	}

	var buf bytes.Buffer

	printAlarmsTable(&buf, alarms)

	out := buf.String()

	for _, want := range []string{"Stretch", "Daily Alarm 2", "Daily Alarm 10", "07:05", "22:00", last, "disabled"} {
		assert.Contains(t, out, want)
	}

	first := strings.Index(out, "Stretch")
	second := strings.Index(out, "Daily Alarm 2")
	tenth := strings.Index(out, "Daily Alarm 10")

	assert.Less(t, first, second)
	assert.Less(t, second, tenth)
}

func TestBuildSink(t *testing.T) {
	l := logger.Discard()
	b := notify.NewBroadcaster(l)

	cfg := config.Default()
	cfg.Notifications.Desktop = false

	sink, err := buildSink(cfg, b, l)
	require.NoError(t, err)

	fanout, ok := sink.(notify.Fanout)
	require.True(t, ok)
	assert.Len(t, fanout, 2)
	assert.Same(t, b, fanout[0])

	cfg.Notifications.Desktop = true
	cfg.Notifications.Cmd = "notify-send chime"

	sink, err = buildSink(cfg, b, l)
	require.NoError(t, err)
	assert.Len(t, sink.(notify.Fanout), 4)

	cfg.Notifications.Sound = "alarm.txt"

	_, err = buildSink(cfg, b, l)
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	a := Get()

	var names []string
	for _, c := range a.Commands {
		names = append(names, c.Name)
	}

	for _, want := range []string{
		"daemon", "start", "cancel", "status", "recents", "subtle",
		"alarm", "interval", "watch", "edit-config", "import",
	} {
		assert.Contains(t, names, want)
	}

	assert.Equal(t, "chime", a.Name)
	assert.Equal(t, config.Version, a.Version)
}

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "b", firstNonEmptyString("", "b", "c"))
	assert.Empty(t, firstNonEmptyString("", ""))
}

func TestHelpText(t *testing.T) {
	help := helpText()

	for _, want := range []string{
		"chime daemon [OPTIONS]",
		"chime alarm set 2 9:30pm",
		"CHIME_ENV",
		"{{range .Commands}}",
		"{{range .VisibleFlags}}",
	} {
		assert.Contains(t, help, want)
	}
}
