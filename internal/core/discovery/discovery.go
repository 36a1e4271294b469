// Package discovery contains the pure logic for finding the contract
// that is awaiting manual renewal in the mailbox.
package discovery

import (
	"errors"
	"regexp"
)

// ErrNoPendingRenewal means no renewal notice was found in the search
// window. There is nothing to do for this run.
var ErrNoPendingRenewal = errors.New("no pending renewal notice found in mailbox")

// NoticeSubject is the provider's renewal-notice subject prefix.
const NoticeSubject = "Anstehende manuelle Vertragsverlaengerung fuer Vertrag"

var (
	subjectPattern = regexp.MustCompile(`Vertrag\s+(\d+)`)
	bodyPattern    = regexp.MustCompile(`Vertrag\s*[^:]+:\s*(\d+)`)
)

// Notice is one candidate renewal-notice message. Body is empty when
// only headers were fetched.
type Notice struct {
	Subject string
	Body    string
}

// FromSubject extracts a contract id from a notice subject.
func FromSubject(subject string) (string, bool) {
	m := subjectPattern.FindStringSubmatch(subject)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FromBody extracts a contract id from a notice body. The body phrasing
// differs from the subject (the id follows a colon), so a separate
// pattern applies.
func FromBody(body string) (string, bool) {
	m := bodyPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Selection is the result of choosing a contract id among candidates.
type Selection struct {
	ContractID string
	// Distinct counts distinct contract ids seen across all candidates.
	// More than one is reported as a warning by the caller; the first
	// id by mailbox-returned order wins.
	Distinct int
}

// Select picks the contract id from candidate notices: first extracted
// id in mailbox-returned order. Subject extraction is tried before the
// body so headers-only candidates can resolve without a full fetch.
func Select(notices []Notice) (Selection, error) {
	var sel Selection
	seen := map[string]struct{}{}
	for _, n := range notices {
		id, ok := FromSubject(n.Subject)
		if !ok {
			id, ok = FromBody(n.Body)
		}
		if !ok {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			sel.Distinct++
		}
		if sel.ContractID == "" {
			sel.ContractID = id
		}
	}
	if sel.ContractID == "" {
		return Selection{}, ErrNoPendingRenewal
	}
	return sel, nil
}
