package procwatch

import (
	"testing"
	"time"
)

func TestScanMatchesConfiguredNames(t *testing.T) {
	tests := []struct {
		name  string
		procs []string
		want  bool
	}{
		{
			name:  "exact name",
			procs: []string{"launchd", "pokemmo"},
			want:  true,
		},
		{
			name:  "jvm with arguments in name",
			procs: []string{"java -jar PokeMMO.exe"},
			want:  true,
		},
		{
			name:  "case insensitive",
			procs: []string{"PokeMMO"},
			want:  true,
		},
		{
			name:  "absent",
			procs: []string{"launchd", "Finder"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New([]string{"pokemmo", "java"}, time.Second, nil)
			w.listProcs = func() ([]string, error) { return tt.procs, nil }

			w.scan()
			if got := w.Present(); got != tt.want {
				t.Errorf("Present() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnChangeFiresOnTransitionsOnly(t *testing.T) {
	var calls []bool
	w := New([]string{"pokemmo"}, time.Second, func(present bool) {
		calls = append(calls, present)
	})

	procs := []string{}
	w.listProcs = func() ([]string, error) { return procs, nil }

	w.scan() // absent -> absent: no call
	procs = []string{"pokemmo"}
	w.scan() // appear
	w.scan() // steady: no call
	procs = nil
	w.scan() // disappear

	want := []bool{true, false}
	if len(calls) != len(want) {
		t.Fatalf("onChange calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("onChange[%d] = %v, want %v", i, calls[i], want[i])
		}
	}
}
