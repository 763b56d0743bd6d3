package chat

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// addressPattern is the structural check: local@domain.tld with a TLD of two or more letters.
	addressPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// candidatePattern finds address-shaped substrings, including ones missing a TLD.
	candidatePattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*`)
)

// providerDomains maps well-known mail provider names to their usual domain,
// used when an address omits the TLD ("name@gmail").
var providerDomains = map[string]string{
	"gmail":      "gmail.com",
	"googlemail": "googlemail.com",
	"yahoo":      "yahoo.com",
	"hotmail":    "hotmail.com",
	"outlook":    "outlook.com",
	"icloud":     "icloud.com",
	"aol":        "aol.com",
	"protonmail": "protonmail.com",
	"proton":     "proton.me",
	"live":       "live.com",
}

// domainTypos maps common misspellings to the intended domain.
var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gamil.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gnail.com":   "gmail.com",
	"gmail.co":    "gmail.com",
	"gmail.con":   "gmail.com",
	"gmail.cmo":   "gmail.com",
	"yahooo.com":  "yahoo.com",
	"yaho.com":    "yahoo.com",
	"yahoo.con":   "yahoo.com",
	"hotmial.com": "hotmail.com",
	"hotmail.con": "hotmail.com",
	"hotmal.com":  "hotmail.com",
	"outlok.com":  "outlook.com",
	"outlook.con": "outlook.com",
	"iclod.com":   "icloud.com",
}

// ValidateEmail checks addr structurally and against common typos.
// On failure it returns a human-readable hint, naming the corrected address
// when one can be guessed.
func ValidateEmail(addr string) (ok bool, hint string) {
	addr = strings.TrimSpace(addr)
	local, domain, found := strings.Cut(addr, "@")
	if !found || local == "" || domain == "" {
		return false, "That doesn't look like a complete email address. Could you share it in the form name@example.com?"
	}

	lower := strings.ToLower(domain)
	if fixed, typo := domainTypos[lower]; typo {
		return false, suggestion(local, fixed)
	}
	if !strings.Contains(lower, ".") {
		if fixed, known := providerDomains[lower]; known {
			return false, suggestion(local, fixed)
		}
		return false, fmt.Sprintf("The address %q seems to be missing its ending (like .com). Could you double-check it?", addr)
	}

	if !addressPattern.MatchString(addr) {
		return false, fmt.Sprintf("The address %q doesn't look quite right. Could you double-check it?", addr)
	}
	return true, ""
}

func suggestion(local, domain string) string {
	return fmt.Sprintf("It looks like there might be a typo. Did you mean %s@%s?", local, domain)
}

// ExtractCandidate returns the address the message offers, if any.
// A message that is exactly one address wins; otherwise the first
// address-shaped substring is used.
func ExtractCandidate(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	if addressPattern.MatchString(trimmed) {
		return trimmed, true
	}
	m := candidatePattern.FindString(trimmed)
	if m == "" {
		return "", false
	}
	return strings.TrimRight(m, ".-"), true
}
