// Package pin contains the pure logic for extracting one-time PINs from
// challenge mails.
package pin

import (
	"errors"
	"regexp"
)

// ErrPinNotFound means no matching challenge mail appeared before the
// deadline, or a matching mail did not carry a recognizable PIN. Both
// are fatal: the first is a timeout, the second an unrecognized mail
// format that a retry will not fix.
var ErrPinNotFound = errors.New("no confirmation pin found in mailbox")

var (
	// The provider sends the PIN on its own line.
	primaryPattern = regexp.MustCompile(`(?m)^\s*PIN\s*:?\s*(\d{6})\s*$`)
	// Forwarded or re-wrapped bodies lose the line structure; accept a
	// PIN that follows the keyword within a short distance.
	forwardedPattern = regexp.MustCompile(`(?s)PIN\D{0,48}?(\d{6})`)
)

// Extract pulls the six-digit PIN out of a challenge mail body, trying
// the strict line-anchored pattern before the forwarded-tolerant one.
func Extract(body string) (string, bool) {
	if m := primaryPattern.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	if m := forwardedPattern.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	return "", false
}

// Selection is the result of choosing a PIN among matching mails.
type Selection struct {
	Pin string
	// Distinct counts distinct PINs seen across all matching bodies in
	// the poll. More than one is reported as a warning by the caller;
	// the newest message's PIN wins.
	Distinct int
}

// Select picks the PIN from challenge-mail bodies ordered newest-first.
// The newest body must parse: an unparseable newest match means the
// mail format changed, which waiting will not cure.
func Select(bodies []string) (Selection, error) {
	if len(bodies) == 0 {
		return Selection{}, ErrPinNotFound
	}
	first, ok := Extract(bodies[0])
	if !ok {
		return Selection{}, ErrPinNotFound
	}
	sel := Selection{Pin: first}
	seen := map[string]struct{}{}
	for _, body := range bodies {
		p, ok := Extract(body)
		if !ok {
			continue
		}
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			sel.Distinct++
		}
	}
	return sel, nil
}
