package geom

import "testing"

func TestPoint_Equals(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want bool
	}{
		{"identical", NewPoint(1, 2), NewPoint(1, 2), true},
		{"different x", NewPoint(1, 2), NewPoint(1.5, 2), false},
		{"different y", NewPoint(1, 2), NewPoint(1, 2.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Equals(tt.q); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoint_EqualsTolerant(t *testing.T) {
	p := NewPoint(0, 0)
	q := NewPoint(0.05, -0.05)
	if p.EqualsTolerant(q, 0.01) {
		t.Errorf("EqualsTolerant() = true, want false for precision 0.01")
	}
	if !p.EqualsTolerant(q, 0.1) {
		t.Errorf("EqualsTolerant() = false, want true for precision 0.1")
	}
}

func TestPoint_Compare(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want int
	}{
		{"equal", NewPoint(1, 1), NewPoint(1, 1), 0},
		{"x less", NewPoint(0, 5), NewPoint(1, 0), -1},
		{"x greater", NewPoint(2, 0), NewPoint(1, 0), 1},
		{"y less", NewPoint(1, 0), NewPoint(1, 1), -1},
		{"y greater", NewPoint(1, 1), NewPoint(1, 0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Compare(tt.q); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoint_DistanceEuclidean(t *testing.T) {
	p := NewPoint(0, 0)
	q := NewPoint(3, 4)
	if got := p.DistanceEuclidean(q); got != 5 {
		t.Errorf("DistanceEuclidean() = %v, want 5", got)
	}
}
