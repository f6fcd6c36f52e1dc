package prompt

import "testing"

func TestMiles(t *testing.T) {
	tests := []struct {
		meters float64
		want   float64
	}{
		{8368.57, 5.2},
		{1609.34, 1.0},
		{0, 0},
		{10000, 6.21},
	}

	for _, tt := range tests {
		if got := Miles(tt.meters); got != tt.want {
			t.Errorf("Miles(%v) = %v, want %v", tt.meters, got, tt.want)
		}
	}
}

func TestFeet(t *testing.T) {
	if got := Feet(100); got != 328 {
		t.Errorf("Feet(100) = %d, want 328", got)
	}
	if got := Feet(0); got != 0 {
		t.Errorf("Feet(0) = %d, want 0", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{2535, "42:15"},
		{3723, "1:02:03"},
		{59, "0:59"},
		{3600, "1:00:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		name    string
		meters  float64
		seconds int
		want    string
	}{
		{"5.2 miles in 42:15", 8368.57, 2535, "8:07"},
		{"zero distance", 0, 2535, "N/A"},
		{"zero time", 8368.57, 0, "N/A"},
		{"one mile in 6:00", 1609.34, 360, "6:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPace(tt.meters, tt.seconds); got != tt.want {
				t.Errorf("FormatPace(%v, %d) = %q, want %q", tt.meters, tt.seconds, got, tt.want)
			}
		})
	}
}
