// Package login contains the pure business logic of the portal login
// state machine. No I/O happens here: functions classify response
// bodies and extract the values the next transition needs.
package login

import (
	"errors"
	"regexp"
	"strings"
)

// State represents the possible states of the login state machine.
type State string

const (
	StateStart               State = "start"
	StateCookieAttempt       State = "cookie_attempt"
	StateFullLoginSubmitted  State = "full_login_submitted"
	StatePinChallengePending State = "pin_challenge_pending"
	StateAuthenticated       State = "authenticated"
	StateLoginFailed         State = "login_failed"
)

// Terminal failures of the login state machine. None of these are
// retried within a run.
var (
	ErrSessionIDNotFound  = errors.New("no session id found in portal entry page")
	ErrCustomerIDNotFound = errors.New("no customer id found in second-factor form")
	ErrLoginFormNotFound  = errors.New("login form not found on portal entry page")
	ErrCaptchaRequired    = errors.New("portal requires captcha confirmation, cannot proceed unattended")
	ErrInvalidCredentials = errors.New("portal rejected the login, check credentials")
)

// PageClass is the classification of a portal response.
type PageClass string

const (
	PageAuthenticated PageClass = "authenticated"
	PagePinChallenge  PageClass = "pin_challenge"
	PageLogin         PageClass = "login"
	PageCaptcha       PageClass = "captcha"
	PageUnknown       PageClass = "unknown"
)

const (
	logoutMarker  = "action=logout"
	loginFormName = "step1_anmeldung"
)

var (
	sessionIDPattern  = regexp.MustCompile(`sess_id=([a-f0-9]+)`)
	customerIDPattern = regexp.MustCompile(`name=["']?c_id["']?[^>]*value=["']?(\d+)`)
	pinFieldPattern   = regexp.MustCompile(`name=["']?pin["']?`)
	captchaPattern    = regexp.MustCompile(`(?i)captcha`)
)

// Classify determines what a portal response represents. A page counts
// as authenticated only when it carries a logout action, carries no
// login form, and the client still holds a live session cookie; all
// three must hold so a half-expired session never passes as logged in.
func Classify(html string, hasSessionCookie bool) PageClass {
	if IsAuthenticated(html, hasSessionCookie) {
		return PageAuthenticated
	}
	if pinFieldPattern.MatchString(html) {
		return PagePinChallenge
	}
	if captchaPattern.MatchString(html) {
		return PageCaptcha
	}
	if HasLoginForm(html) {
		return PageLogin
	}
	return PageUnknown
}

// IsAuthenticated reports whether the response satisfies the
// authenticated-page invariant.
func IsAuthenticated(html string, hasSessionCookie bool) bool {
	return strings.Contains(html, logoutMarker) && !HasLoginForm(html) && hasSessionCookie
}

// HasLoginForm reports whether the page contains the portal login form.
func HasLoginForm(html string) bool {
	return strings.Contains(html, loginFormName)
}

// ExtractSessionID pulls the fresh session id out of the portal entry
// page. Its absence is fatal: nothing downstream can be requested
// without it.
func ExtractSessionID(html string) (string, error) {
	m := sessionIDPattern.FindStringSubmatch(html)
	if m == nil {
		return "", ErrSessionIDNotFound
	}
	return m[1], nil
}

// ExtractCustomerID pulls the numeric customer id embedded in the
// second-factor form.
func ExtractCustomerID(html string) (string, error) {
	m := customerIDPattern.FindStringSubmatch(html)
	if m == nil {
		return "", ErrCustomerIDNotFound
	}
	return m[1], nil
}

// ClassifyFailure maps a non-authenticated final response to its
// terminal error. A captcha marker is distinguished because it needs a
// human and retrying with the same credentials would only escalate it.
func ClassifyFailure(html string) error {
	if captchaPattern.MatchString(html) {
		return ErrCaptchaRequired
	}
	return ErrInvalidCredentials
}
