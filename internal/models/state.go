package models

import "time"

// PersistedState holds the mutable checkpoint fields that survive across
// runs. It is embedded in the config file and rewritten in place after
// every state-affecting step, so a crash loses at most one step of
// progress and never silently duplicates a renewal.
//
// All fields are optional; nil pointers and empty strings marshal as
// absent.
type PersistedState struct {
	LastExtension      *time.Time `json:"last_extension,omitempty"`
	LastFailedLogin    *time.Time `json:"last_failed_login,omitempty"`
	LastCaptchaFailure *time.Time `json:"last_captcha_failure,omitempty"`
	LastContractID     string     `json:"last_contract_id,omitempty"`
	LastSessionToken   string     `json:"last_session_token,omitempty"`
	LastCustomerID     string     `json:"last_customer_id,omitempty"`
}
