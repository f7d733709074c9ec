package sensor

import "regexp"

// Hardware addresses are six case-insensitive hex octet groups with a
// uniform ":" or "-" separator. Validated before any I/O is attempted.
var addressPattern = regexp.MustCompile(
	`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^(?:[0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`)

// ValidAddress reports whether addr is a well-formed sensor hardware
// address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}
