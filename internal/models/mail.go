package models

import "time"

// MailMessage is a single message returned by a mailbox search. Body is
// empty when the search ran headers-only.
type MailMessage struct {
	Subject string
	Date    time.Time
	Body    string
}

// Contract is the remote renewal target. It is never mutated locally;
// only the opaque id and the expiry observed during the workflow are
// recorded.
type Contract struct {
	ID             string
	ObservedExpiry string // dd.mm.yyyy as scraped, empty if never seen
}
