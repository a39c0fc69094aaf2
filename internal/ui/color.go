// Package ui styles command-line output
package ui

import (
	"github.com/pterm/pterm"
)

// DarkTheme selects the light variant of each colour.
var DarkTheme bool

func paint(normal, light pterm.Color, a any) string {
	if DarkTheme {
		return light.Sprint(a)
	}

	return normal.Sprint(a)
}

func Green(a any) string {
	return paint(pterm.FgGreen, pterm.FgLightGreen, a)
}

func Cyan(a any) string {
	return paint(pterm.FgCyan, pterm.FgLightCyan, a)
}

func Magenta(a any) string {
	return paint(pterm.FgMagenta, pterm.FgLightMagenta, a)
}

func Blue(a any) string {
	return paint(pterm.FgBlue, pterm.FgLightBlue, a)
}

func Red(a any) string {
	return paint(pterm.FgRed, pterm.FgLightRed, a)
}
