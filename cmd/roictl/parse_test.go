package main

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"80000", 80000, false},
		{"80,000", 80000, false},
		{"$80,000.50", 80000.5, false},
		{"-5", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err=%v", tc.in, err)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckTerm(t *testing.T) {
	for _, years := range []int{0, -1} {
		if err := checkTerm(years); err == nil {
			t.Fatalf("term %d accepted", years)
		}
	}
	if err := checkTerm(10); err != nil {
		t.Fatalf("term 10: %v", err)
	}
}
