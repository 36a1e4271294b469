package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/renewbot/internal/models"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ext := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	failed := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	captcha := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)

	cfg := &Config{
		Credentials: Credentials{
			IMAPServer:     "imap.example.org:993",
			IMAPLogin:      "bot@example.org",
			IMAPPassword:   "mail-secret",
			PortalLogin:    "customer@example.org",
			PortalPassword: "portal-secret",
		},
		PersistedState: models.PersistedState{
			LastExtension:      &ext,
			LastFailedLogin:    &failed,
			LastCaptchaFailure: &captcha,
			LastContractID:     "123456",
			LastSessionToken:   "3f9a0cde12",
			LastCustomerID:     "44812",
		},
	}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Credentials != cfg.Credentials {
		t.Errorf("Credentials = %+v, want %+v", got.Credentials, cfg.Credentials)
	}
	if got.LastContractID != "123456" || got.LastSessionToken != "3f9a0cde12" || got.LastCustomerID != "44812" {
		t.Errorf("string state fields did not round-trip: %+v", got.PersistedState)
	}
	if got.LastExtension == nil || !got.LastExtension.Equal(ext) {
		t.Errorf("LastExtension = %v, want %v", got.LastExtension, ext)
	}
	if got.LastFailedLogin == nil || !got.LastFailedLogin.Equal(failed) {
		t.Errorf("LastFailedLogin = %v, want %v", got.LastFailedLogin, failed)
	}
	if got.LastCaptchaFailure == nil || !got.LastCaptchaFailure.Equal(captcha) {
		t.Errorf("LastCaptchaFailure = %v, want %v", got.LastCaptchaFailure, captcha)
	}
}

func TestSaveLoadAbsentFields(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Credentials: Credentials{
			IMAPServer:     "imap.example.org:993",
			IMAPLogin:      "bot@example.org",
			IMAPPassword:   "s",
			PortalLogin:    "c",
			PortalPassword: "p",
		},
	}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Absent optional fields must stay absent, not become zero values
	// in the file.
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, key := range []string{"last_extension", "last_failed_login", "last_captcha_failure", "last_contract_id", "last_session_token", "last_customer_id"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("unset field %q was written to the file", key)
		}
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.LastExtension != nil || got.LastFailedLogin != nil || got.LastCaptchaFailure != nil {
		t.Errorf("absent timestamps did not round-trip as nil: %+v", got.PersistedState)
	}
	if got.LastContractID != "" || got.LastSessionToken != "" || got.LastCustomerID != "" {
		t.Errorf("absent string fields did not round-trip as empty: %+v", got.PersistedState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() on empty dir succeeded, want error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	t.Setenv("RENEWBOT_PORTAL_LOGIN", "env-login")

	got, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if got.PortalLogin != "env-login" {
		t.Errorf("PortalLogin = %q, want env value on a fresh install", got.PortalLogin)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Credentials: Credentials{
			IMAPServer:     "imap.example.org:993",
			IMAPLogin:      "file-login",
			IMAPPassword:   "file-secret",
			PortalLogin:    "c",
			PortalPassword: "p",
		},
	}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Setenv("RENEWBOT_IMAP_PASSWORD", "env-secret")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.IMAPPassword != "env-secret" {
		t.Errorf("IMAPPassword = %q, want env override", got.IMAPPassword)
	}
	if got.IMAPLogin != "file-login" {
		t.Errorf("IMAPLogin = %q, want file value preserved", got.IMAPLogin)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() on empty config succeeded, want error")
	}

	cfg.Credentials = Credentials{
		IMAPServer:     "s",
		IMAPLogin:      "l",
		IMAPPassword:   "p",
		PortalLogin:    "pl",
		PortalPassword: "pp",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on complete config = %v, want nil", err)
	}
}
