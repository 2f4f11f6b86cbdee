package scale

import (
	"math"
	"testing"

	"github.com/statehealth/scatter/internal/axis"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
)

func sampleDataset() *data.Dataset {
	return data.NewDataset([]data.Row{
		data.NewRow("Alabama", "AL", map[column.Key]float64{
			column.Poverty: 18.5, column.Healthcare: 11.6, column.Smoker: 23.5,
			column.Obese: 35.6, column.Income: 43623, column.Age: 38.3,
		}),
		data.NewRow("Alaska", "AK", map[column.Key]float64{
			column.Poverty: 10.8, column.Healthcare: 14.6, column.Smoker: 22.6,
			column.Obese: 32.1, column.Income: 73355, column.Age: 33.6,
		}),
	})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeDomain(t *testing.T) {
	ds := sampleDataset()

	tests := []struct {
		key  column.Key
		want Domain
	}{
		{column.Poverty, Domain{8.64, 20.35}},
		{column.Healthcare, Domain{0, 16.06}},
		{column.Obese, Domain{0, 39.16}},
		{column.Income, Domain{0.8 * 43623, 1.1 * 73355}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got := ComputeDomain(ds, tt.key, column.AxisOf(tt.key))
			if !approx(got.Min, tt.want.Min) || !approx(got.Max, tt.want.Max) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestComputeDomain_NoClipping(t *testing.T) {
	ds := sampleDataset()
	for _, d := range column.All() {
		dom := ComputeDomain(ds, d.Key, d.Axis)
		for _, v := range ds.Values(d.Key) {
			if !dom.Contains(v) {
				t.Errorf("%s: value %v outside domain %+v", d.Key, v, dom)
			}
		}
	}
}

func TestComputeDomain_SkipsNaN(t *testing.T) {
	rows := sampleDataset().Rows()
	rows = append(rows, data.NewRow("Nowhere", "NW", map[column.Key]float64{
		column.Poverty: math.NaN(),
	}))
	got := ComputeDomain(data.NewDataset(rows), column.Poverty, column.X)
	if !approx(got.Min, 8.64) || !approx(got.Max, 20.35) {
		t.Errorf("unexpected domain %+v", got)
	}
}

func TestComputeDomain_EmptyIsNaN(t *testing.T) {
	got := ComputeDomain(data.NewDataset(nil), column.Poverty, column.X)
	if got.Finite() {
		t.Errorf("expected non-finite domain, got %+v", got)
	}
}

func TestScaleMap(t *testing.T) {
	s := New(Domain{0, 10}, Range{Low: 100, High: 0})
	if got := s.Map(0); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := s.Map(10); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := s.Map(2.5); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}

	s.SetDomain(Domain{0, 20})
	if got := s.Map(10); got != 50 {
		t.Errorf("expected 50 after SetDomain, got %v", got)
	}
	if s.Range() != (Range{Low: 100, High: 0}) {
		t.Errorf("range changed: %+v", s.Range())
	}
}

func TestTicks(t *testing.T) {
	ticks := Ticks(Domain{0, 16.06}, 10)
	if len(ticks) == 0 || len(ticks) > 10 {
		t.Fatalf("unexpected tick count %d: %v", len(ticks), ticks)
	}
	for i, v := range ticks {
		if v < 0 || v > 16.06 {
			t.Errorf("tick %v outside domain", v)
		}
		if i > 0 && v <= ticks[i-1] {
			t.Errorf("ticks not increasing: %v", ticks)
		}
	}

	if Ticks(Domain{math.NaN(), 1}, 10) != nil {
		t.Error("expected no ticks for NaN domain")
	}
}

func TestMapperMapPoint(t *testing.T) {
	ds := sampleDataset()
	m := NewMapper(860, 520)
	s := axis.Default()
	m.UpdateDomain(column.X, ComputeDomain(ds, s.X, column.X))
	m.UpdateDomain(column.Y, ComputeDomain(ds, s.Y, column.Y))

	al := ds.Row(0)
	p := m.MapPoint(al, s)
	wantX := (18.5 - 8.64) / (20.35 - 8.64) * 860
	wantY := 520 - 11.6/16.06*520
	if !approx(p.X, wantX) || !approx(p.Y, wantY) {
		t.Errorf("expected (%v,%v), got %+v", wantX, wantY, p)
	}

	s, _, _ = s.Switch(column.Obese)
	m.UpdateDomain(column.Y, ComputeDomain(ds, s.Y, column.Y))
	p = m.MapPoint(al, s)
	wantY = 520 - 35.6/39.16*520
	if !approx(p.Y, wantY) {
		t.Errorf("expected y %v after switch, got %v", wantY, p.Y)
	}

	snap := m.Scale(column.Y)
	m.UpdateDomain(column.Y, Domain{0, 1})
	if !approx(snap.Domain().Max, 39.16) {
		t.Errorf("snapshot followed later update: %+v", snap.Domain())
	}
}
