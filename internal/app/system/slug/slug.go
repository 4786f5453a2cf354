// Package slug derives organization slugs from display names.
package slug

import (
	"fmt"
	"strings"
	"time"
)

var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// FromDisplayName derives the tenant slug for an organization display name:
// lower-cased, spaces become hyphens, German umlauts transliterated.
// An empty name yields a timestamp-based fallback slug so registration
// never fails for lack of an organization name.
func FromDisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("org-%d", time.Now().Unix())
	}
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	return umlauts.Replace(s)
}

// EmailDomain returns the domain part of an email address, lower-cased,
// or "" if the address has no domain.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
