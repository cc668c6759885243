package email

import "regexp"

// local@domain.tld, where the domain part needs at least one dot
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+$`)

// IsValidAddress reports whether s is structurally an email address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}
