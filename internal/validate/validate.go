// Package validate holds the pure input predicates used by the wizard's
// prompt loops. Each function returns nil for acceptable input; the
// re-prompt policy lives with the caller.
package validate

import (
	"errors"
	"regexp"
	"strconv"
)

// RFC 1123 label: alphanumeric, inner hyphens allowed, no leading or
// trailing hyphen.
var hostnameRe = regexp.MustCompile(`^[A-Za-z0-9]([-A-Za-z0-9]*[A-Za-z0-9])?$`)

// Strictly positive decimal with no leading zeros.
var positiveIntRe = regexp.MustCompile(`^[1-9][0-9]*$`)

var (
	ErrEmpty          = errors.New("input is empty")
	ErrBadHostname    = errors.New("not a valid hostname label")
	ErrPasswordLength = errors.New("password shorter than 8 characters")
	ErrNotPositiveInt = errors.New("not a positive integer")
	ErrBadHostOctet   = errors.New("not a valid host octet")
)

// Hostname reports whether raw is a single RFC-1123-style hostname label.
func Hostname(raw string) error {
	if raw == "" {
		return ErrEmpty
	}
	if !hostnameRe.MatchString(raw) {
		return ErrBadHostname
	}
	return nil
}

// Password enforces the minimum length only. There is deliberately no
// character-class rule; the password is a bootstrap credential replaced
// or disabled during post-configuration.
func Password(raw string) error {
	if len(raw) < 8 {
		return ErrPasswordLength
	}
	return nil
}

// PositiveInt accepts strictly positive decimals without leading zeros.
func PositiveInt(raw string) error {
	if !positiveIntRe.MatchString(raw) {
		return ErrNotPositiveInt
	}
	return nil
}

// HostOctet accepts the last octet of an IPv4 host address. The network
// (0) and broadcast (255) values are rejected: this tool only ever
// assigns host addresses inside a /24-or-smaller subnet.
func HostOctet(raw string) error {
	if !positiveIntRe.MatchString(raw) {
		return ErrBadHostOctet
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 254 {
		return ErrBadHostOctet
	}
	return nil
}
