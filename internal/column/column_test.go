package column

import "testing"

func TestGroupPartition(t *testing.T) {
	seen := make(map[Key]Axis)
	for _, a := range []Axis{X, Y} {
		g := Group(a)
		if len(g) != 3 {
			t.Fatalf("expected 3 columns in group %s, got %d", a, len(g))
		}
		for _, d := range g {
			if prev, ok := seen[d.Key]; ok {
				t.Errorf("key %s in both %s and %s", d.Key, prev, a)
			}
			seen[d.Key] = a
		}
	}
	if len(seen) != Count {
		t.Errorf("expected %d keys, got %d", Count, len(seen))
	}

	wantX := []Key{Poverty, Age, Income}
	for i, d := range Group(X) {
		if d.Key != wantX[i] {
			t.Errorf("X group[%d]: expected %s, got %s", i, wantX[i], d.Key)
		}
	}
}

func TestParseKey(t *testing.T) {
	for _, d := range All() {
		k, err := ParseKey(d.Field)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", d.Field, err)
		}
		if k != d.Key {
			t.Errorf("ParseKey(%q): expected %s, got %s", d.Field, d.Key, k)
		}
	}

	if _, err := ParseKey("State"); err == nil {
		t.Error("expected error for non-numeric column")
	}
}

func TestLookupUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown key")
		}
	}()
	Lookup(Key(Count))
}

func TestPrefixes(t *testing.T) {
	if got := Lookup(Obese).TooltipPrefix; got != "Obese: " {
		t.Errorf("unexpected obese prefix %q", got)
	}
	if got := Lookup(Healthcare).TooltipPrefix; got != "Lacks Healthcare: " {
		t.Errorf("unexpected healthcare prefix %q", got)
	}
}
