package tooltip

import (
	"math"
	"testing"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/data"
)

func alabama() data.Row {
	return data.NewRow("Alabama", "AL", map[column.Key]float64{
		column.Poverty: 18.5, column.Healthcare: 11.6, column.Smoker: 23.5,
		column.Obese: 35.6, column.Income: 43623, column.Age: 38.3,
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		x, y column.Key
		want string
	}{
		{"default", column.Poverty, column.Healthcare, "Alabama\nPoverty: 18.5\nLacks Healthcare: 11.6"},
		{"obese", column.Poverty, column.Obese, "Alabama\nPoverty: 18.5\nObese: 35.6"},
		{"income", column.Income, column.Smoker, "Alabama\nIncome: 43623\nSmoker: 23.5"},
		{"age", column.Age, column.Smoker, "Alabama\nAge: 38.3\nSmoker: 23.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(alabama(), tt.x, tt.y); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(math.NaN()); got != "NaN" {
		t.Errorf("expected NaN, got %q", got)
	}
	if got := FormatValue(73355); got != "73355" {
		t.Errorf("expected 73355, got %q", got)
	}
}

func TestOffsetApply(t *testing.T) {
	got := DefaultOffset.Apply(Anchor{X: 100, Y: 100})
	if got != (Anchor{X: 40, Y: 180}) {
		t.Errorf("unexpected anchor %+v", got)
	}
}
