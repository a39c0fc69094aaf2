// Package app defines the chime command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/chime/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the chime app instance.
func Get() *cli.App {
	chimeApp := &cli.App{
		Name: "chime",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Chime is a background countdown and alarm daemon. Start a single countdown,
		schedule daily alarms, or get reminded at a steady cadence inside a
		daily window.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "daemon",
				Usage: "Run the chime daemon in the foreground",
				Flags: []cli.Flag{
					storeFlag,
					storePathFlag,
					cmdFlag,
					soundFlag,
					disableNotificationFlag,
					debugFlag,
				},
				Action: daemonAction,
			},
			{
				Name:      "start",
				Usage:     "Start a countdown (e.g. 25m, 90s, or a number of minutes)",
				ArgsUsage: "<duration>",
				Action:    startAction,
			},
			{
				Name:   "cancel",
				Usage:  "Cancel the running countdown",
				Action: cancelAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the countdown",
				Action: statusAction,
			},
			{
				Name:   "recents",
				Usage:  "List recently used countdown durations",
				Action: recentsAction,
			},
			{
				Name:      "subtle",
				Usage:     "Show or change subtle mode",
				ArgsUsage: "[on|off]",
				Action:    subtleAction,
			},
			{
				Name:  "alarm",
				Usage: "Manage daily alarms",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List every alarm slot",
						Action: alarmListAction,
					},
					{
						Name:      "set",
						Usage:     "Set the time of an alarm slot (e.g. 'chime alarm set 2 9:30pm')",
						ArgsUsage: "<slot> <time>",
						Flags:     []cli.Flag{labelFlag},
						Action:    alarmSetAction,
					},
					{
						Name:      "enable",
						Usage:     "Enable an alarm slot",
						ArgsUsage: "<slot>",
						Action:    alarmToggleAction(true),
					},
					{
						Name:      "disable",
						Usage:     "Disable an alarm slot",
						ArgsUsage: "<slot>",
						Action:    alarmToggleAction(false),
					},
				},
			},
			{
				Name:  "interval",
				Usage: "Manage the daily reminder window",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the reminder window",
						Action: intervalShowAction,
					},
					{
						Name:      "set",
						Usage:     "Set the reminder window (e.g. 'chime interval set 9am 5:30pm --every 20')",
						ArgsUsage: "<start> <end>",
						Flags:     []cli.Flag{everyFlag, lateEveryFlag},
						Action:    intervalSetAction,
					},
					{
						Name:   "on",
						Usage:  "Enable reminders",
						Action: intervalToggleAction(true),
					},
					{
						Name:   "off",
						Usage:  "Disable reminders",
						Action: intervalToggleAction(false),
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Print events pushed by the daemon until interrupted",
				Action: watchAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:      "import",
				Usage:     "Copy settings from a settings.json file into the settings document. Stop the daemon first",
				ArgsUsage: "<settings.json>",
				Flags:     []cli.Flag{storeFlag, storePathFlag, overwriteFlag},
				Action:    importAction,
			},
			{
				Name:   "reset-secret",
				Usage:  "Forget the stored RPC secret so the daemon generates a new one",
				Action: resetSecretAction,
			},
		},
		Flags: []cli.Flag{
			addressFlag,
			noColorFlag,
			darkThemeFlag,
		},
		Before: beforeAction,
	}

	return chimeApp
}
