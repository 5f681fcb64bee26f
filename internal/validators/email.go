package validators

import (
	"net"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsEmailFormatValid is a shape check only; deliverability is a separate,
// optional DNS probe (IsEmailDomainValid).
func IsEmailFormatValid(email string) bool {
	if len(email) > 100 {
		return false
	}
	return emailRe.MatchString(email)
}

// IsEmailDomainValid resolves MX (or A/AAAA as a fallback) for the address
// domain. It hits the network, so handlers only call it when the strict
// check is enabled in config.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
