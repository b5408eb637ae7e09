package order

import (
	"math/rand/v2"
	"regexp"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^THP-[A-Z0-9]{4}-[A-Z0-9]{3}$`)

// GenerateCode returns a fresh order code of the form THP-XXXX-XXX. Each of
// the seven characters is drawn uniformly and independently from A-Z0-9.
//
// Codes are for sharing, not secrecy, and are not checked against existing
// orders here.
func GenerateCode() string {
	b := []byte("THP-0000-000")
	for _, i := range [...]int{4, 5, 6, 7, 9, 10, 11} {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// ValidCode reports whether s is a well-formed, upper-case order code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
