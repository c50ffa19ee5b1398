// Package validators holds checks that go beyond what gin binding
// tags can express.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address' domain resolves.
// MX is the authoritative signal; an A/AAAA record is accepted as a
// fallback since plenty of small clinics run mail off a bare host.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	host := email[at+1:]

	if mx, err := net.LookupMX(host); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(host); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
