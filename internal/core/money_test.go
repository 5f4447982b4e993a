package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"45", 4500, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{".5", 50, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %d, got %d (err %v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneySigns(t *testing.T) {
	m := Money{Cents: -500}
	if m.Abs().Cents != 500 {
		t.Fatalf("abs failed: %d", m.Abs().Cents)
	}
	if (Money{Cents: 500}).Neg().Cents != -500 {
		t.Fatalf("neg failed")
	}
	if (Money{Cents: -500}).Neg().Cents != -500 {
		t.Fatalf("neg of negative must stay negative")
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{-4500, "-45.00"},
		{250, "2.50"},
		{0, "0.00"},
		{-5, "-0.05"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyFloat(t *testing.T) {
	if got := (Money{Cents: -10000}).Float(); got != -100.0 {
		t.Fatalf("expected -100.0, got %v", got)
	}
}
