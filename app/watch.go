package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/chime/client"
	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/internal/ui"
	"github.com/ayoisaiah/chime/notify"
)

// formatEvent renders a pushed event as a single line.
func formatEvent(e client.Event) string {
	switch e.Name {
	case notify.EventSecondsUpdated:
		if len(e.Args) > 0 {
			if secs, ok := e.Args[0].(float64); ok {
				return fmt.Sprintf("%s %s", ui.Cyan("remaining"), timeutil.FormatRemaining(secs))
			}
		}
	case notify.EventTimer:
		if msg, subtle, ok := notify.TimerEvent(e.Name, e.Args); ok {
			if subtle {
				return fmt.Sprintf("%s %s (subtle)", ui.Green("event"), msg)
			}

			return fmt.Sprintf("%s %s", ui.Green("event"), msg)
		}
	case notify.EventRefreshRecents:
		if len(e.Args) > 0 {
			if list, ok := e.Args[0].([]any); ok {
				secs := make([]float64, 0, len(list))

				for _, v := range list {
					if f, ok := v.(float64); ok {
						secs = append(secs, f)
					}
				}

				return fmt.Sprintf("%s %s", ui.Magenta("recents"), formatDurations(secs))
			}
		}
	case notify.EventSubtleMode:
		if len(e.Args) > 0 {
			if b, ok := e.Args[0].(bool); ok {
				return fmt.Sprintf("%s %s", ui.Blue("subtle mode"), onOff(b))
			}
		}
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = fmt.Sprint(a)
	}

	return strings.TrimSpace(e.Name + " " + strings.Join(args, " "))
}

func printEvent(w io.Writer, now time.Time, e client.Event) {
	fmt.Fprintf(w, "[%s] %s\n", now.Format("15:04:05"), formatEvent(e))
}

// watchAction handles the watch command which prints every event pushed by
// the daemon until interrupted.
func watchAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	token, err := secretStore().Lookup(cfg.Server.Secret)
	if err != nil {
		return err
	}

	sigCtx, stop := signalContext(ctx)
	defer stop()

	c, err := client.Dial(sigCtx, cfg.Server.Address, token, func(e client.Event) {
		printEvent(os.Stdout, time.Now(), e)
	})
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Watching %s (press Ctrl-C to stop)", cfg.Server.Address)

	done := make(chan struct{})

	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-sigCtx.Done():
		_ = c.Close()
		return nil
	case <-done:
		return errDisconnected
	}
}
