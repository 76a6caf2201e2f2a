/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package render turns a transport.View into draw instructions and paints
// them on a character-cell terminal.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"hdxscribe/internal/transport"
	"hdxscribe/pkg/spec"
)

// Layout is the drawable area. BarWidth <= 0 means half the terminal width.
type Layout struct {
	Cols     int
	Rows     int
	BarWidth int
}

// Cell places a single rune.
type Cell struct {
	Row, Col int
	Rune     rune
}

// Line places a string starting at Col.
type Line struct {
	Row, Col int
	Text     string
}

// Frame is everything needed to paint one screen.
type Frame struct {
	Cells []Cell
	Lines []Line
}

var HelpLines = []string{
	"<: Decrease tempo",
	">: Increase tempo",
	"=: Reset tempo",
	"-/+: Volume down / up",
	"h: Show / exit this help menu",
	"j: Back 2 seconds",
	"k: Forward 2 seconds",
	"J/K: Back / forward 10 seconds",
	"gg: Go to start",
	"G: Go to end",
	"space/p: Pause / resume",
	"m: Add mark at current position",
	"[/]: Previous / next mark",
	"enter: Jump to active mark",
	"x: Delete active mark",
	"q: Quit hdx-scribe",
}

// FillCells is the number of filled bar cells for pos within length.
func FillCells(width int, pos, length int64) int {
	if width <= 0 || length <= 0 {
		return 0
	}
	n := int(int64(width) * pos / length)
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

// MarkCell is the bar cell holding a mark at t. The end of the song maps
// onto the last cell.
func MarkCell(width int, t, length int64) int {
	n := FillCells(width, t, length)
	if n >= width {
		n = width - 1
	}
	return n
}

// Clock formats milliseconds as mm:ss.
func Clock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	sec := ms / 1000
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

func barWidth(l Layout) int {
	w := l.BarWidth
	if w <= 0 {
		w = l.Cols / 2
	}
	if w > l.Cols-2 {
		w = l.Cols - 2
	}
	if w < 1 {
		w = 1
	}
	return w
}

func centered(row, cols int, text string) Line {
	col := (cols - runewidth.StringWidth(text)) / 2
	if col < 0 {
		col = 0
	}
	return Line{Row: row, Col: col, Text: text}
}

func statusLabel(s transport.Song) string {
	if s.Ended {
		return "Finished"
	}
	return s.Pause.String()
}

// Project builds the main screen for v. It has no side effects.
func Project(v transport.View, l Layout) Frame {
	var f Frame
	song := v.Song
	width := barWidth(l)
	mid := l.Rows / 2

	f.Lines = append(f.Lines,
		centered(1, l.Cols, spec.WelcomeLine),
		Line{Row: 3, Col: 0, Text: "Transcribing " + song.Name},
		Line{Row: 4, Col: 0, Text: "Type h for the list of all commands."},
	)

	// [=====|    ]
	left := (l.Cols - width - 2) / 2
	if left < 0 {
		left = 0
	}
	fill := FillCells(width, song.Position, song.Length)
	f.Cells = append(f.Cells, Cell{Row: mid, Col: left, Rune: spec.BarOpen})
	for i := 0; i < width; i++ {
		r := spec.BarEmpty
		if i < fill {
			r = spec.BarFill
		}
		f.Cells = append(f.Cells, Cell{Row: mid, Col: left + 1 + i, Rune: r})
	}
	f.Cells = append(f.Cells, Cell{Row: mid, Col: left + 1 + width, Rune: spec.BarClose})

	if v.HasActive() {
		c := MarkCell(width, v.Marks[v.Active], song.Length)
		f.Cells = append(f.Cells, Cell{Row: mid, Col: left + 1 + c, Rune: spec.MarkGlyph})
	}

	if strip := EnergyStrip(v.Envelope, width); strip != "" {
		f.Lines = append(f.Lines, Line{Row: mid + 1, Col: left + 1, Text: strip})
	}

	row := mid + 3
	next := func(text string) {
		f.Lines = append(f.Lines, centered(row, l.Cols, text))
		row++
	}
	next(fmt.Sprintf("%s [%s]", song.Name, statusLabel(song)))
	next(fmt.Sprintf("%s / %s", Clock(song.Position), Clock(song.Length)))
	next(fmt.Sprintf("Tempo: %.2fx   Volume: %+.1f", song.Tempo, song.VolumeDB))

	if v.HasActive() {
		next(fmt.Sprintf("Mark %d/%d at %s", v.Active+1, len(v.Marks), Clock(v.Marks[v.Active])))
		var around []string
		if v.Active > 0 {
			around = append(around, "prev "+Clock(v.Marks[v.Active-1]))
		}
		if v.Active < len(v.Marks)-1 {
			around = append(around, "next "+Clock(v.Marks[v.Active+1]))
		}
		if len(around) > 0 {
			next(strings.Join(around, "   "))
		}
	}

	if l.Rows > 0 {
		f.Lines = append(f.Lines, Line{Row: l.Rows - 1, Col: 0, Text: v.Mode})
	}
	return f
}

// ProjectHelp builds the help screen.
func ProjectHelp(l Layout) Frame {
	f := Frame{Lines: []Line{centered(1, l.Cols, spec.AppName+" help:")}}
	for i, h := range HelpLines {
		f.Lines = append(f.Lines, Line{Row: 3 + i, Col: 0, Text: h})
	}
	f.Lines = append(f.Lines, Line{Row: 4 + len(HelpLines), Col: 0, Text: "Press any key to return."})
	return f
}

// EnergyStrip folds envelope bins (0..1) into width block glyphs, taking the
// loudest bin per cell.
func EnergyStrip(env []float64, width int) string {
	if len(env) == 0 || width <= 0 {
		return ""
	}
	ramp := []rune(spec.EnergyRamp)
	var b strings.Builder
	for i := 0; i < width; i++ {
		lo := i * len(env) / width
		hi := (i + 1) * len(env) / width
		if hi <= lo {
			hi = lo + 1
		}
		peak := 0.0
		for _, e := range env[lo:hi] {
			peak = math.Max(peak, e)
		}
		peak = math.Min(math.Max(peak, 0), 1)
		b.WriteRune(ramp[int(math.Round(peak*float64(len(ramp)-1)))])
	}
	return b.String()
}
