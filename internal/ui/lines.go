package ui

import (
	"fmt"
	"strings"
	"unicode"

	"cleanbots/internal/core"
)

// PanelLines lays out a parameter snapshot as text rows. Values are padded to
// a common column and the rows are cut to maxCols characters.
func PanelLines(title string, snap core.ParameterSnapshot, maxCols int) []string {
	lines := []string{title}
	width := 0
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			width = max(width, len(p.Label))
		}
	}
	for _, g := range snap.Groups {
		lines = append(lines, "", strings.ToUpper(g.Name))
		if g.Summary != "" {
			lines = append(lines, g.Summary)
		}
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf(" %-*s %s", width, p.Label, p.Value))
		}
	}
	if len(snap.Groups) == 0 {
		lines = append(lines, "", "No parameters")
	}
	if maxCols > 0 {
		for i, l := range lines {
			if len(l) > maxCols {
				lines[i] = l[:maxCols]
			}
		}
	}
	return lines
}

// Title builds the panel heading for a sim name.
func Title(name string) string {
	if name == "" {
		return "Parameters"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " Parameters"
}
