package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{" A@B.com ", "a@b.com"},
		{"Guest@Example.COM", "guest@example.com"},
		{"abc", "abc"},
		{"\tmixed@Case.org\n", "mixed@case.org"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if twice := NormalizeEmail(NormalizeEmail(tt.in)); twice != NormalizeEmail(tt.in) {
			t.Errorf("NormalizeEmail not idempotent for %q", tt.in)
		}
	}
}

func TestNormalizeTableID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"VIP 1", "VIP1"},
		{"vip1", "VIP1"},
		{" VIP1 ", "VIP1"},
		{"vip  1", "VIP1"},
		{"Vip1", "VIP1"},
		{"t\t 2 a", "T2A"},
		{"12", "12"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTableID(tt.in); got != tt.want {
			t.Errorf("NormalizeTableID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTableIDIdempotent(t *testing.T) {
	inputs := []string{"", "VIP 1", "vip 1", " a b c ", "ÄÖ 3", "x\ny", "T-01 b"}
	for _, in := range inputs {
		once := NormalizeTableID(in)
		if twice := NormalizeTableID(once); twice != once {
			t.Errorf("NormalizeTableID not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeTableIDEquivalentSpellings(t *testing.T) {
	if NormalizeTableID("VIP 1") != NormalizeTableID("vip1") || NormalizeTableID("vip1") != "VIP1" {
		t.Fatal("equivalent spellings must share one token")
	}
}
