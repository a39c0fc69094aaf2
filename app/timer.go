package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/chime/daemon"
	"github.com/ayoisaiah/chime/internal/config"
	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/internal/ui"
)

const noTimerMsg = "No countdown is running"

// parseToggle reads the on/off argument of the subtle and toggle commands.
func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "enable":
		return true, nil
	case "off", "false", "no", "disable":
		return false, nil
	default:
		return false, errInvalidToggle.Fmt(s)
	}
}

// formatDurations renders countdown durations as a comma-separated list.
func formatDurations(secs []float64) string {
	out := make([]string, len(secs))

	for i, s := range secs {
		out[i] = timeutil.Seconds(s).String()
	}

	return strings.Join(out, ", ")
}

// printStatus writes a summary of the daemon state.
func printStatus(w io.Writer, s daemon.Status) {
	if s.Remaining > 0 {
		fmt.Fprintf(
			w,
			"%s %s (ends at %s)\n",
			ui.Green("Remaining:"),
			timeutil.FormatRemaining(s.Remaining),
			s.End.Local().Format("15:04:05"),
		)
	} else {
		fmt.Fprintln(w, noTimerMsg)
	}

	subtle := ui.Red("off")
	if s.Subtle {
		subtle = ui.Green("on")
	}

	fmt.Fprintf(w, "%s %s\n", ui.Cyan("Subtle mode:"), subtle)

	if len(s.Recents) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.Magenta("Recents:"), formatDurations(s.Recents))
	}
}

// startAction handles the start command.
func startAction(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return errMissingArg.Fmt("<duration>")
	}

	dur, err := config.ParseDuration(arg)
	if err != nil {
		return err
	}

	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	if err := c.StartTimer(ctx.Context, dur.Seconds()); err != nil {
		return err
	}

	pterm.Success.Printfln("Countdown of %s started", dur)

	return nil
}

// cancelAction handles the cancel command.
func cancelAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	if err := c.CancelTimer(ctx.Context); err != nil {
		return err
	}

	pterm.Success.Println("Countdown cancelled")

	return nil
}

// statusAction handles the status command.
func statusAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	s, err := c.Status(ctx.Context)
	if err != nil {
		return err
	}

	printStatus(os.Stdout, s)

	return nil
}

// recentsAction handles the recents command.
func recentsAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	recents, err := c.Recents(ctx.Context)
	if err != nil {
		return err
	}

	if len(recents) == 0 {
		pterm.Info.Println("No recent countdowns")
		return nil
	}

	for i, r := range recents {
		fmt.Printf("%d. %s\n", i+1, timeutil.Seconds(r))
	}

	return nil
}

// subtleAction prints subtle mode, or changes it when an argument is given.
func subtleAction(ctx *cli.Context) error {
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	if ctx.Args().Len() == 0 {
		enabled, err := c.SubtleMode(ctx.Context)
		if err != nil {
			return err
		}

		pterm.Info.Printfln("Subtle mode is %s", onOff(enabled))

		return nil
	}

	enabled, err := parseToggle(ctx.Args().First())
	if err != nil {
		return err
	}

	if err := c.SetSubtleMode(ctx.Context, enabled); err != nil {
		return err
	}

	pterm.Success.Printfln("Subtle mode turned %s", onOff(enabled))

	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
