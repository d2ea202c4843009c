package account

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09123456789", "09123456789"},
		{"+989123456789", "09123456789"},
		{"9123456789", "09123456789"},
		{" 09123456789 ", "09123456789"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	for _, in := range []string{"09123456789", "+989123456789", "9123456789"} {
		once := NormalizePhone(in)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestIsPhoneCandidate(t *testing.T) {
	valid := []string{"09123456789", "+989123456789", "9123456789"}
	for _, s := range valid {
		if !IsPhoneCandidate(s) {
			t.Errorf("expected %q to be a phone candidate", s)
		}
	}

	invalid := []string{
		"0912345678",    // too short
		"091234567890",  // too long
		"08123456789",   // not a mobile prefix
		"+98812345678",  // wrong digit after prefix
		"0912 3456789",  // embedded space
		"ali@example.com",
		"",
	}
	for _, s := range invalid {
		if IsPhoneCandidate(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestIsCanonicalPhone(t *testing.T) {
	if !IsCanonicalPhone("09123456789") {
		t.Error("canonical form rejected")
	}
	for _, s := range []string{"+989123456789", "9123456789", "0912345678"} {
		if IsCanonicalPhone(s) {
			t.Errorf("expected %q to be non-canonical", s)
		}
	}
}

func TestIsEmail(t *testing.T) {
	valid := []string{"ali@example.com", "a.b+tag@sub.example.io"}
	for _, s := range valid {
		if !IsEmail(s) {
			t.Errorf("expected %q to be a valid email", s)
		}
	}

	invalid := []string{"", "ali", "ali@", "@example.com", "ali@example", "a b@example.com", "ali@example.c"}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}
