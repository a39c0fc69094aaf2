package ui_test

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/chime/internal/ui"
)

func TestPaintWithoutColor(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(func() {
		pterm.EnableColor()
		ui.DarkTheme = false
	})

	for _, dark := range []bool{false, true} {
		ui.DarkTheme = dark

		assert.Equal(t, "ok", ui.Green("ok"))
		assert.Equal(t, "42", ui.Red(42))
		assert.Equal(t, "x", ui.Cyan("x"))
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	ui.PrintTable([][]string{
		{"SLOT", "TIME"},
		{"1", "21:00"},
	}, &buf)

	assert.Contains(t, buf.String(), "SLOT")
	assert.Contains(t, buf.String(), "21:00")
}
