package scorer

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// WorkEmailDomain returns the registrable domain (eTLD+1) of email when it
// is not a personal mail provider.
func WorkEmailDomain(email string, personal map[string]bool) (string, bool) {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	host := strings.TrimSuffix(email[at+1:], ".")
	if !strings.Contains(host, ".") || strings.ContainsAny(host, " @/") {
		return "", false
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", false
	}
	if personal[domain] || personal[host] {
		return "", false
	}
	return domain, true
}
