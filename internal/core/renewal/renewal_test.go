package renewal

import (
	"errors"
	"testing"
)

func TestControlPrefix(t *testing.T) {
	got := ControlPrefix("123456")
	want := "kc2_customer_contract_details_extend_contract_123456_"
	if got != want {
		t.Errorf("ControlPrefix() = %q, want %q", got, want)
	}
}

func TestExtensionLink(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		contractID string
		want       string
		wantErr    error
	}{
		{
			name:       "deep link present",
			html:       `<a href="index.iphp?sess_id=ab12&subaction=choose_order&ord_no=123456">verlaengern</a>`,
			contractID: "123456",
			want:       "index.iphp?sess_id=ab12&subaction=choose_order&ord_no=123456",
		},
		{
			name:       "entity-escaped ampersands are unescaped",
			html:       `<a href="index.iphp?sess_id=ab12&amp;ord_no=42&amp;x=1">v</a>`,
			contractID: "42",
			want:       "index.iphp?sess_id=ab12&ord_no=42&x=1",
		},
		{
			name:       "link for a different contract does not match",
			html:       `<a href="index.iphp?ord_no=999999">v</a>`,
			contractID: "123456",
			wantErr:    ErrExtensionLinkNotFound,
		},
		{
			name:       "no links at all",
			html:       `<html><body>keine Vertraege</body></html>`,
			contractID: "123456",
			wantErr:    ErrExtensionLinkNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtensionLink(tt.html, tt.contractID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtensionLink() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtensionLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTokenExchange(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "success sentinel yields token",
			body: `{"rs":"success","token":{"value":"abc"}}`,
			want: "abc",
		},
		{
			name:    "error status aborts",
			body:    `{"rs":"error"}`,
			wantErr: ErrExtensionRejected,
		},
		{
			name:    "success without token aborts",
			body:    `{"rs":"success","token":{}}`,
			wantErr: ErrExtensionRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTokenExchange([]byte(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseTokenExchange() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTokenExchange() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ParseTokenExchange([]byte(`<html>not json`)); err == nil {
		t.Error("ParseTokenExchange() accepted malformed JSON")
	}
}

func TestExtractExpiry(t *testing.T) {
	got, ok := ExtractExpiry(`Der Vertrag laeuft nach der Verlaengerung bis zum 30.11.2026.`)
	if !ok || got != "30.11.2026" {
		t.Errorf("ExtractExpiry() = %q, %v; want %q, true", got, ok, "30.11.2026")
	}

	if _, ok := ExtractExpiry(`<div>kein Datum</div>`); ok {
		t.Error("ExtractExpiry() matched a fragment without a date")
	}
}

func TestClassifyFinalize(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		expiry string
		want   Outcome
	}{
		{
			name: "german confirmation phrase",
			html: `Der Vertrag wurde erfolgreich verlaengert.`,
			want: OutcomeConfirmed,
		},
		{
			name: "english confirmation phrase",
			html: `Your contract has been successfully extended.`,
			want: OutcomeConfirmed,
		},
		{
			name:   "captured expiry echoed in response",
			html:   `Laufzeit bis 30.11.2026`,
			expiry: "30.11.2026",
			want:   OutcomeConfirmed,
		},
		{
			name:   "no phrase and expiry not echoed",
			html:   `<div>Vorgang abgeschlossen</div>`,
			expiry: "30.11.2026",
			want:   OutcomeUncertain,
		},
		{
			name: "no phrase and no expiry known",
			html: `<div></div>`,
			want: OutcomeUncertain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFinalize(tt.html, tt.expiry); got != tt.want {
				t.Errorf("ClassifyFinalize() = %v, want %v", got, tt.want)
			}
		})
	}
}
