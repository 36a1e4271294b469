package models

import (
	"net/url"
	"time"
)

// Page is a fetched portal page.
type Page struct {
	URL        string
	StatusCode int
	Body       string
}

// Form is an HTML form extracted from a page. Fields contains the
// pre-filled values found in the markup.
type Form struct {
	Name   string
	Action string // may be relative to the page URL
	Method string // GET or POST
	Fields url.Values
}

// Set force-creates or overrides a named field. The portal ships its
// login form with fields suppressed in the markup, so submission must
// be able to inject fields that never appeared in the HTML.
func (f *Form) Set(name, value string) {
	if f.Fields == nil {
		f.Fields = url.Values{}
	}
	f.Fields.Set(name, value)
}

// Cookie is the persisted shape of a session cookie.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain,omitempty"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}
