package app

import (
	"strings"

	"github.com/pterm/pterm"
)

// section renders a heading followed by an indented body.
func section(title, body string) string {
	return pterm.Yellow(title) + "\n" + body + "\n\n"
}

// helpText is the template used for `chime --help`.
func helpText() string {
	var b strings.Builder

	b.WriteString(section("DESCRIPTION", "\t\t{{.Usage}}"))
	b.WriteString(section("USAGE", strings.Join([]string{
		"\t\tchime daemon [OPTIONS]      run the countdown, alarms and RPC server",
		"\t\tchime <COMMAND> [ARGS]      talk to a running daemon",
	}, "\n")))

	b.WriteString(section(
		"COMMANDS",
		"{{range .Commands}}{{if not .HideHelp}}   "+
			pterm.Green("{{join .Names `, `}}")+
			"{{ `\t`}}{{.Usage}}{{ `\n` }}{{end}}{{end}}",
	))

	b.WriteString(section(
		"GLOBAL OPTIONS",
		"{{range .VisibleFlags}}\t\t"+
			pterm.Green("--{{.Name}}")+
			"{{if .Aliases}}{{range $a := .Aliases}}, "+pterm.Green("-{{$a}}")+"{{end}}{{end}}"+
			"\n\t\t\t\t{{.Usage}}\n{{end}}",
	))

	b.WriteString(section("EXAMPLES", examplesHelp()))
	b.WriteString(section("ENVIRONMENT", envHelp()))
	b.WriteString(section("VERSION", "\t\t{{.Version}}"))

	return b.String()
}

func examplesHelp() string {
	return strings.Join([]string{
		"\t\tchime start 25m            count down 25 minutes",
		"\t\tchime alarm set 2 9:30pm   ring alarm slot 2 every day at 21:30",
		"\t\tchime interval set 9am 5pm --every 20 && chime interval on",
		"\t\tchime watch                print events as the daemon pushes them",
	}, "\n")
}

func envHelp() string {
	return strings.Join([]string{
		"\t\tCHIME_NO_COLOR, NO_COLOR   disable coloured output",
		"\t\tCHIME_DARK_THEME           use colours suited to dark terminals",
		"\t\tCHIME_ENV                  use separate config, settings and log files (e.g. dev)",
	}, "\n")
}
