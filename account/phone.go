package account

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

	// A login candidate may carry the "+98" country prefix, a leading "0",
	// or neither, followed by "9" and nine digits.
	phoneCandidatePattern = regexp.MustCompile(`^(\+98|0)?9\d{9}$`)

	// The stored canonical form is always "0" + ten digits starting with "9".
	canonicalPhonePattern = regexp.MustCompile(`^09\d{9}$`)
)

// NormalizePhone rewrites a candidate mobile number into the canonical
// "09xxxxxxxxx" form used as the unique lookup key: a "+98" prefix becomes
// a leading "0", and a bare "9..." number gets one prepended. Normalizing
// an already-canonical number returns it unchanged.
func NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(phone, "+98"); ok {
		phone = "0" + rest
	}
	if !strings.HasPrefix(phone, "0") {
		phone = "0" + phone
	}
	return phone
}

// IsEmail reports whether s looks like a local@domain.tld address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhoneCandidate reports whether s is acceptable as a phone login
// identifier before normalization.
func IsPhoneCandidate(s string) bool {
	return phoneCandidatePattern.MatchString(s)
}

// IsCanonicalPhone reports whether s is in the stored canonical form.
func IsCanonicalPhone(s string) bool {
	return canonicalPhonePattern.MatchString(s)
}
