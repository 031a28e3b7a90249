package swing

import (
	"testing"

	"github.com/ravin/steadyhead/internal/detect"
)

func TestOutside(t *testing.T) {
	circle := ToleranceCircle{Center: detect.Point{X: 100, Y: 100}, Radius: 50}

	tests := []struct {
		name string
		pos  detect.Point
		want bool
	}{
		{
			name: "at center",
			pos:  detect.Point{X: 100, Y: 100},
			want: false,
		},
		{
			name: "well inside",
			pos:  detect.Point{X: 120, Y: 110},
			want: false,
		},
		{
			name: "exactly on boundary",
			pos:  detect.Point{X: 150, Y: 100},
			want: false,
		},
		{
			name: "one pixel past boundary",
			pos:  detect.Point{X: 151, Y: 100},
			want: true,
		},
		{
			name: "far outside",
			pos:  detect.Point{X: 300, Y: 300},
			want: true,
		},
		{
			name: "diagonal boundary case",
			pos:  detect.Point{X: 130, Y: 140}, // distance 50 exactly
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outside(tt.pos, circle); got != tt.want {
				t.Errorf("Outside(%+v) = %v, want %v (distance %f)",
					tt.pos, got, tt.want, Distance(tt.pos, circle))
			}
		})
	}
}

func TestOutside_StatelessAcrossCalls(t *testing.T) {
	circle := ToleranceCircle{Center: detect.Point{X: 0, Y: 0}, Radius: 10}
	pos := detect.Point{X: 20, Y: 0}

	for i := 0; i < 5; i++ {
		if !Outside(pos, circle) {
			t.Fatalf("call %d returned false for a point outside the circle", i)
		}
	}
}
