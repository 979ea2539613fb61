package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		name string
		in   string
		def  int
		want int
	}{
		{"empty uses default", "", 7, 7},
		{"valid number", "42", 7, 42},
		{"negative number", "-3", 7, -3},
		{"garbage uses default", "abc", 7, 7},
		{"trailing junk uses default", "12x", 7, 7},
		{"zero parses", "0", 7, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AtoiDefault(tc.in, tc.def); got != tc.want {
				t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.in, tc.def, got, tc.want)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name        string
		n, def, max int
		want        int
	}{
		{"positive in range", 10, 50, 100, 10},
		{"zero falls back", 0, 50, 100, 50},
		{"negative falls back", -5, 50, 100, 50},
		{"capped at max", 500, 50, 100, 100},
		{"no cap when max is zero", 500, 50, 0, 500},
		{"default itself capped", 0, 200, 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampLimit(tc.n, tc.def, tc.max); got != tc.want {
				t.Fatalf("ClampLimit(%d, %d, %d) = %d; want %d", tc.n, tc.def, tc.max, got, tc.want)
			}
		})
	}
}
