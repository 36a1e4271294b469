// Package renewal contains the pure step logic of the token-chained
// contract-extension transaction. Each function turns one portal
// response into the value the next step needs; the workflow service
// owns the actual requests.
package renewal

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrExtensionLinkNotFound means the landing page carries no extend
	// link for the contract, e.g. because it is not currently eligible.
	ErrExtensionLinkNotFound = errors.New("no extension link for contract on landing page")
	// ErrExtensionRejected means the token exchange did not report the
	// success sentinel; the transaction aborts without finalizing.
	ErrExtensionRejected = errors.New("portal rejected the extension pin")
)

// Portal actions of the extension transaction, in step order.
const (
	ActionShowSecurityDialog = "show_kc2_security_password_dialog"
	ActionGetToken           = "kc2_security_password_get_token"
	ActionConfirmationDialog = "kc2_customer_contract_details_get_extend_contract_confirmation_dialog"
	ActionExtendTerm         = "kc2_customer_contract_details_extend_contract_term"

	controlPrefix   = "kc2_customer_contract_details_extend_contract_"
	successSentinel = "success"
)

var expiryPattern = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)

// Finalize-step confirmation phrases. The German one is what the portal
// renders; the English one covers the translated UI.
var confirmationPhrases = []string{
	"erfolgreich verlaenger",
	"erfolgreich verlänger",
	"successfully extended",
}

// ControlPrefix returns the contract-scoped control prefix the security
// dialog and token exchange are keyed by.
func ControlPrefix(contractID string) string {
	return controlPrefix + contractID + "_"
}

// ExtensionLink scrapes the contract-specific extend deep link from the
// authenticated landing page.
func ExtensionLink(html, contractID string) (string, error) {
	p := regexp.MustCompile(`href=["']([^"']*ord_no=` + regexp.QuoteMeta(contractID) + `[^"']*)["']`)
	m := p.FindStringSubmatch(html)
	if m == nil {
		return "", fmt.Errorf("contract %s: %w", contractID, ErrExtensionLinkNotFound)
	}
	return strings.ReplaceAll(m[1], "&amp;", "&"), nil
}

type tokenExchangeResponse struct {
	Status string `json:"rs"`
	Token  struct {
		Value string `json:"value"`
	} `json:"token"`
}

// ParseTokenExchange decodes the token-exchange JSON response. Anything
// but the success sentinel aborts the transaction before finalizing.
func ParseTokenExchange(body []byte) (string, error) {
	var resp tokenExchangeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed token exchange response: %w", err)
	}
	if resp.Status != successSentinel {
		return "", fmt.Errorf("status %q: %w", resp.Status, ErrExtensionRejected)
	}
	if resp.Token.Value == "" {
		return "", fmt.Errorf("empty token: %w", ErrExtensionRejected)
	}
	return resp.Token.Value, nil
}

// ExtractExpiry pulls the new contract expiry date out of the
// confirmation dialog fragment. Absence is non-fatal; the remote system
// stays authoritative on the date.
func ExtractExpiry(fragment string) (string, bool) {
	m := expiryPattern.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Outcome classifies the finalize step. The portal gives no reliable
// machine-readable confirmation, so the best local evidence yields
// either a confirmed or an uncertain success, never a hard failure that
// would trigger a duplicate attempt.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeUncertain Outcome = "uncertain"
	OutcomeFailed    Outcome = "failed"
)

// ClassifyFinalize determines the finalize outcome from the response
// body and the expiry captured in the confirmation dialog, if any.
func ClassifyFinalize(html, expiry string) Outcome {
	lower := strings.ToLower(html)
	for _, phrase := range confirmationPhrases {
		if strings.Contains(lower, phrase) {
			return OutcomeConfirmed
		}
	}
	if expiry != "" && strings.Contains(html, expiry) {
		return OutcomeConfirmed
	}
	return OutcomeUncertain
}
