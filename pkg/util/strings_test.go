package util

import (
	"math"
	"testing"
)

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 7, 7},
		{"12", 7, 12},
		{" 3 ", 7, 3},
		{"abc", 7, 7},
	}
	for _, tc := range cases {
		if got := ParseIntDefault(tc.in, tc.def); got != tc.want {
			t.Fatalf("ParseIntDefault(%q,%d)=%d want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := ParseFloat("12,345.5"); !ok || math.Abs(v-12345.5) > 1e-9 {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	if _, ok := ParseFloat("NULL"); ok {
		t.Fatalf("expected failure for NULL")
	}
	if _, ok := ParseFloat("  "); ok {
		t.Fatalf("expected failure for blank")
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Massachusetts Institute of Technology", "institute") {
		t.Fatalf("expected match")
	}
	if ContainsFold("Stanford University", "yale") {
		t.Fatalf("unexpected match")
	}
}
