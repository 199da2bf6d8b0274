// Package recognize turns captured screen regions into encounter labels.
package recognize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level markers used by the three game client languages.
var levelMarkers = []string{"lv.", "nv.", "niv."}

var titleCaser = cases.Title(language.English)

// ParseBattleStart reports whether the recognized dialogue lines announce a
// new encounter ("A wild ... appeared!").
func ParseBattleStart(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "a wild") {
			return true
		}
	}
	return false
}

// ParseNames extracts creature names from recognized headline lines. A name
// is the token immediately preceding a level marker; one-character tokens are
// OCR noise and dropped.
func ParseNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !containsMarker(lower) {
			continue
		}
		fields := strings.Fields(lower)
		for i := 0; i+1 < len(fields); i++ {
			if isMarker(fields[i+1]) && len(fields[i]) > 1 {
				names = append(names, fields[i])
			}
		}
	}
	return names
}

// Canonical normalizes a recognized label so case variants from the OCR
// engine count as one entry.
func Canonical(label string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(label)))
}

// CanonicalAll normalizes a batch of labels, dropping empties.
func CanonicalAll(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if c := Canonical(l); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func containsMarker(line string) bool {
	for _, m := range levelMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func isMarker(token string) bool {
	for _, m := range levelMarkers {
		if token == m {
			return true
		}
	}
	return false
}
