package extract

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// ValidEmail reports whether s looks like local-part@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is an optional "+" followed by 10-15 digits.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
