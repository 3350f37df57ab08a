package sim

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded match event.
type SimLogEntry struct {
	Tick     int
	Tank     string  // "T0".. or "--" for match-wide events
	Category string  // phase, turn, shot, flight, impact, bounce, split, roll, napalm, dig, damage, burial, terrain, shop, ai, extract
	Key      string  // event within the category
	Value    string  // free text
	NumVal   float64 // numeric payload for threshold checks
}

// String renders the entry as one fixed-width line:
//
//	[T=0042] T1   damage    hit              -30 hp (now 20) from T0 at d=0.0
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-9s %-16s %s",
		e.Tick, e.Tank, e.Category, e.Key, e.Value)
}

// is reports whether the entry has the given category and key; an empty
// argument matches anything.
func (e SimLogEntry) is(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// SimLog is the append-only event record of one match. Tests query it,
// the reports summarise it and the presenters stream it.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog returns an empty log. Per-tick flight samples are kept only
// when verbose is set.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, tank, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{tick, tank, category, key, value, numVal})
}

// AddVerbose is Add for high-volume events.
func (sl *SimLog) AddVerbose(tick int, tank, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, tank, category, key, value, numVal)
	}
}

// Entries exposes the backing slice; callers must not modify it.
func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

func (sl *SimLog) Len() int { return len(sl.entries) }

// Filter returns the entries with the given category and key ("" = any).
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.is(category, key) {
			out = append(out, e)
		}
	}
	return out
}

// ForTank returns the entries logged against one tank label.
func (sl *SimLog) ForTank(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tank == label {
			out = append(out, e)
		}
	}
	return out
}

func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.is(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the newest entry with the given category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].is(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry also requires valueSubstr to occur in the entry's Value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.is(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the whole log, one line per entry.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

// Tail renders the newest n entries, oldest first.
func (sl *SimLog) Tail(n int) string {
	if n >= len(sl.entries) {
		return sl.Format()
	}
	return formatEntries(sl.entries[len(sl.entries)-n:])
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary is a per-tank status block for test failure output.
func (sl *SimLog) Summary(tick int, tanks []Tank) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)
	for _, t := range tanks {
		state := "alive"
		if !t.Alive() {
			state = "out"
		}
		fmt.Fprintf(&sb, "%s %-8s hp=%3d/%-3d money=%5d x=%7.1f  %s\n",
			t.Label(), t.Name, t.Health, t.MaxHealth, t.Money, t.X, state)
	}
	fmt.Fprintf(&sb, "shots=%d impacts=%d bounces=%d burials=%d\n",
		sl.CountCategory("shot", "fired"),
		sl.CountCategory("impact", ""),
		sl.CountCategory("bounce", ""),
		sl.CountCategory("burial", ""))
	return sb.String()
}
