package recognize

import (
	"reflect"
	"testing"
)

func TestParseBattleStart(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{
			name:  "wild announcement",
			lines: []string{"A wild Rattata appeared!"},
			want:  true,
		},
		{
			name:  "case insensitive",
			lines: []string{"A WILD ZUBAT APPEARED!"},
			want:  true,
		},
		{
			name:  "second line",
			lines: []string{"What will you do?", "a wild pikachu appeared"},
			want:  true,
		},
		{
			name:  "no announcement",
			lines: []string{"What will you do?", "Fight  Bag  Run"},
			want:  false,
		},
		{
			name:  "empty",
			lines: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBattleStart(tt.lines); got != tt.want {
				t.Errorf("ParseBattleStart(%v) = %v, want %v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "single name before marker",
			lines: []string{"Rattata Lv. 4"},
			want:  []string{"rattata"},
		},
		{
			name:  "spanish marker",
			lines: []string{"Zubat Nv. 12"},
			want:  []string{"zubat"},
		},
		{
			name:  "french marker",
			lines: []string{"Pikachu Niv. 7"},
			want:  []string{"pikachu"},
		},
		{
			name:  "horde on one line",
			lines: []string{"Zubat Lv. 11 Zubat Lv. 12 Zubat Lv. 10"},
			want:  []string{"zubat", "zubat", "zubat"},
		},
		{
			name:  "multiple lines",
			lines: []string{"Rattata Lv. 4", "Pidgey Lv. 5"},
			want:  []string{"rattata", "pidgey"},
		},
		{
			name:  "one-character junk dropped",
			lines: []string{"i Lv. 4"},
			want:  nil,
		},
		{
			name:  "no marker",
			lines: []string{"A wild Rattata appeared!"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNames(tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseNames(%v) = %v, want %v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pikachu", "Pikachu"},
		{"PIKACHU", "Pikachu"},
		{"  rattata ", "Rattata"},
		{"mr. mime", "Mr. Mime"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalAllDropsEmpties(t *testing.T) {
	got := CanonicalAll([]string{"zubat", "", "  ", "ZUBAT"})
	want := []string{"Zubat", "Zubat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CanonicalAll = %v, want %v", got, want)
	}
}
