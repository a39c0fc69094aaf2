package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	darkThemeFlag = &cli.BoolFlag{
		Name:    "dark-theme",
		Usage:   "Use colours suited to dark terminal backgrounds",
		EnvVars: []string{"CHIME_DARK_THEME"},
	}

	addressFlag = &cli.StringFlag{
		Name:    "address",
		Aliases: []string{"a"},
		Usage:   "Address of the chime daemon (default: 127.0.0.1:7878)",
	}

	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "Settings backend: bolt, sqlite or json",
	}

	storePathFlag = &cli.StringFlag{
		Name:  "store-path",
		Usage: "Location of the settings document (defaults to the xdg data directory)",
	}

	cmdFlag = &cli.StringFlag{
		Name:  "cmd",
		Usage: "Execute an arbitrary command whenever a timer event fires",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Play an audio file (mp3, ogg, flac or wav) on every non-subtle event. Disable sound by setting to 'off'",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable desktop notifications",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Log at debug level and mirror the log to stderr",
	}

	labelFlag = &cli.StringFlag{
		Name:    "label",
		Aliases: []string{"l"},
		Usage:   "Notification text of the alarm (defaults to 'Daily Alarm N')",
	}

	everyFlag = &cli.IntFlag{
		Name:    "every",
		Aliases: []string{"e"},
		Usage:   "Reminder cadence in minutes",
	}

	lateEveryFlag = &cli.IntFlag{
		Name:  "late-every",
		Usage: "Reminder cadence in minutes for the second half of the window (0 keeps --every)",
	}

	overwriteFlag = &cli.BoolFlag{
		Name:  "overwrite",
		Usage: "Replace keys that already exist in the settings document",
	}
)
