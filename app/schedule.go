package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/internal/ui"
	"github.com/ayoisaiah/chime/scheduler"
)

// clockLayouts are tried before falling back to natural language parsing.
var clockLayouts = []string{
	"15:04",
	"3:04pm",
	"3:04 pm",
	"3pm",
	"3 pm",
}

// parseClock reads a time of day such as "21:30", "9:30pm" or "half past
// nine in the evening".
func parseClock(s string, now time.Time) (hour, minute int, err error) {
	s = strings.TrimSpace(s)

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, strings.ToLower(s))
		if err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}

	dt, err := dps.Parse(&dps.Configuration{CurrentTime: now}, s)
	if err != nil || dt.Time.IsZero() {
		return 0, 0, errParseTime.Fmt(s)
	}

	return dt.Time.Hour(), dt.Time.Minute(), nil
}

// parseSlot accepts a slot number or a slot name such as alarm_2.
func parseSlot(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "alarm_"))
	if err != nil || n < 1 {
		return 0, errInvalidSlot.Fmt(s)
	}

	return n, nil
}

// printAlarmsTable prints the alarm slots in natural order.
func printAlarmsTable(w io.Writer, alarms scheduler.Alarms) {
	slots := alarms.Slots()
	tableBody := make([][]string, 0, len(slots)+1)

	tableBody = append(tableBody, []string{"SLOT", "LABEL", "TIME", "STATUS", "LAST RUN"})

	for _, name := range slots {
		a := alarms[name]

		statusText := ui.Green("enabled")
		if !a.Enabled {
			statusText = ui.Red("disabled")
		}

		lastRun := ""
		if a.LastTriggered != nil {
			lastRun = *a.LastTriggered
		}

		tableBody = append(tableBody, []string{
			strings.TrimPrefix(name, "alarm_"),
			alarms.Label(name),
			timeutil.Clock(a.Hour, a.Minute),
			statusText,
			lastRun,
		})
	}

	ui.PrintTable(tableBody, w)
}

// alarmListAction handles the alarm list command.
func alarmListAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	alarms, err := c.Alarms(ctx.Context)
	if err != nil {
		return err
	}

	printAlarmsTable(os.Stdout, alarms)

	return nil
}

// alarmSetAction handles the alarm set command.
func alarmSetAction(ctx *cli.Context) error {
	if ctx.Args().Len() < 2 {
		return errMissingArg.Fmt("<slot> <time>")
	}

	slot, err := parseSlot(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	hour, minute, err := parseClock(ctx.Args().Get(1), time.Now())
	if err != nil {
		return err
	}

	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	if err := c.SetAlarm(ctx.Context, slot, hour, minute); err != nil {
		return err
	}

	if ctx.IsSet("label") {
		if err := c.SetAlarmLabel(ctx.Context, slot, ctx.String("label")); err != nil {
			return err
		}
	}

	pterm.Success.Printfln(
		"Alarm %d set for %s",
		slot,
		timeutil.Clock(hour, minute),
	)

	return nil
}

func alarmToggleAction(enabled bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		slot, err := parseSlot(ctx.Args().First())
		if err != nil {
			return err
		}

		c, err := newClient(ctx)
		if err != nil {
			return err
		}

		if err := c.ToggleAlarm(ctx.Context, slot, enabled); err != nil {
			return err
		}

		pterm.Success.Printfln("Alarm %d turned %s", slot, onOff(enabled))

		return nil
	}
}

// printInterval writes the reminder window and its state.
func printInterval(w io.Writer, cfg scheduler.IntervalConfig) {
	state := ui.Red("off")
	if cfg.Enabled {
		state = ui.Green("on")
	}

	fmt.Fprintf(w, "%s %s (%s)\n", ui.Cyan("Reminders:"), cfg, state)

	if cfg.LastTriggeredSlot != nil {
		fmt.Fprintf(w, "%s %s\n", ui.Magenta("Last reminder:"), *cfg.LastTriggeredSlot)
	}
}

// intervalShowAction handles the interval show command.
func intervalShowAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	cfg, err := c.IntervalTimer(ctx.Context)
	if err != nil {
		return err
	}

	printInterval(os.Stdout, cfg)

	return nil
}

// intervalSetAction handles the interval set command. The rate is only
// changed when --every or --late-every is given.
func intervalSetAction(ctx *cli.Context) error {
	if ctx.Args().Len() < 2 {
		return errMissingArg.Fmt("<start> <end>")
	}

	now := time.Now()

	startHour, startMinute, err := parseClock(ctx.Args().Get(0), now)
	if err != nil {
		return err
	}

	endHour, endMinute, err := parseClock(ctx.Args().Get(1), now)
	if err != nil {
		return err
	}

	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	err = c.SetIntervalTimer(ctx.Context, startHour, startMinute, endHour, endMinute)
	if err != nil {
		return err
	}

	if ctx.IsSet("every") || ctx.IsSet("late-every") {
		cur, err := c.IntervalTimer(ctx.Context)
		if err != nil {
			return err
		}

		every, lateEvery := cur.Every, cur.LateEvery

		if ctx.IsSet("every") {
			every = ctx.Int("every")
		}

		if ctx.IsSet("late-every") {
			lateEvery = ctx.Int("late-every")
		}

		if err := c.SetIntervalRate(ctx.Context, every, lateEvery); err != nil {
			return err
		}
	}

	cfg, err := c.IntervalTimer(ctx.Context)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Reminders set: %s", cfg)

	return nil
}

func intervalToggleAction(enabled bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}

		if err := c.ToggleIntervalTimer(ctx.Context, enabled); err != nil {
			return err
		}

		pterm.Success.Printfln("Reminders turned %s", onOff(enabled))

		return nil
	}
}
