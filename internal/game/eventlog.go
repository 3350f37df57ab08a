package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Scorch/internal/sim"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
	logMaxChars   = 48 // DebugPrint glyphs are 6px wide
)

// EventEntry is a single line in the event log panel.
type EventEntry struct {
	Tick     int
	Label    string // "T0", "T1" or "--"
	Category string
	Message  string
}

// EventLog is a ring buffer of match events rendered beside the playfield.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(e EventEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// AddSimEntry converts a sim log line into a panel entry.
func (el *EventLog) AddSimEntry(e sim.SimLogEntry) {
	el.Add(EventEntry{
		Tick:     e.Tick,
		Label:    e.Tank,
		Category: e.Category,
		Message:  e.Key + " " + e.Value,
	})
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Reset drops every entry.
func (el *EventLog) Reset() {
	el.head, el.count = 0, 0
}

// categoryColor picks the marker colour for an event category.
func categoryColor(category string) color.RGBA {
	switch category {
	case "damage", "burial":
		return color.RGBA{R: 220, G: 70, B: 60, A: 255}
	case "shot", "impact", "bounce", "split", "roll", "napalm", "dig":
		return color.RGBA{R: 235, G: 170, B: 50, A: 255}
	case "ai":
		return color.RGBA{R: 90, G: 130, B: 220, A: 255}
	case "extract":
		return color.RGBA{R: 80, G: 200, B: 120, A: 255}
	case "shop":
		return color.RGBA{R: 200, G: 200, B: 90, A: 255}
	default:
		return color.RGBA{R: 130, G: 140, B: 130, A: 255}
	}
}

// entryLine formats an entry for the panel, truncated to the panel width.
func entryLine(e EventEntry) string {
	line := fmt.Sprintf("%5d %-2s %s", e.Tick, e.Label, e.Message)
	if len(line) > logMaxChars {
		line = line[:logMaxChars-1] + "~"
	}
	return line
}

// Draw renders the event log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 75, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 26, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "MATCH LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 70, B: 90, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const recent = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 36, B: 46, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, entryLine(e), panelX+12, y)
		y += logLineHeight
	}
}
