package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("New() = %+v, want %+v", p, want)
	}
}

func TestStart_Disabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"empty", Profiler{}},
		{"unknown", Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := tt.p.Start()
			if _, ok := ctl.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", ctl)
			}

			ctl.Stop()
		})
	}
}

func TestModes_Sorted(t *testing.T) {
	if modes := Modes(); !slices.IsSorted(modes) {
		t.Errorf("Modes() not sorted: %v", modes)
	}
}
