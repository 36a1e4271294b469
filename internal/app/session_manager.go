package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/example/renewbot/internal/config"
	"github.com/example/renewbot/internal/core/login"
	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// PortalBaseURL is the provider support portal entry point.
const PortalBaseURL = "https://support.euserv.com/"

// landingPath is the authenticated landing page, relative to the base.
const landingPath = "index.iphp"

// SessionManagerImpl implements the SessionService interface: cookie
// fast-path first, full credential login with an optional PIN second
// factor as fallback. Every terminal transition persists state before
// returning.
type SessionManagerImpl struct {
	web      secondary.WebSession
	cookies  secondary.CookieStore
	state    secondary.StateStore
	pins     primary.PinResolver
	clock    secondary.Clock
	reporter secondary.Reporter
	creds    *config.Credentials
}

// NewSessionManager creates a new SessionManager with injected dependencies.
func NewSessionManager(
	web secondary.WebSession,
	cookies secondary.CookieStore,
	state secondary.StateStore,
	pins primary.PinResolver,
	clock secondary.Clock,
	reporter secondary.Reporter,
	creds *config.Credentials,
) *SessionManagerImpl {
	return &SessionManagerImpl{
		web:      web,
		cookies:  cookies,
		state:    state,
		pins:     pins,
		clock:    clock,
		reporter: reporter,
		creds:    creds,
	}
}

// Login authenticates against the portal and returns an authenticated
// session.
func (s *SessionManagerImpl) Login(ctx context.Context) (*models.AuthSession, error) {
	st, err := s.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}

	sess, resumed, err := s.tryCookieResume(ctx, st)
	if err != nil {
		return nil, err
	}
	if resumed {
		return sess, nil
	}

	return s.fullLogin(ctx, st)
}

// tryCookieResume replays the stored session id against the landing
// page. A non-authenticated response falls through to full login; only
// transport errors are fatal.
func (s *SessionManagerImpl) tryCookieResume(ctx context.Context, st *models.PersistedState) (*models.AuthSession, bool, error) {
	if st.LastSessionToken == "" {
		return nil, false, nil
	}
	jar, err := s.cookies.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cookie store: %w", err)
	}
	if len(jar) == 0 {
		return nil, false, nil
	}

	s.reporter.Step("trying portal login via stored session cookies")
	s.web.SetCookies(jar)

	page, err := s.web.Get(ctx, landingPath+"?sess_id="+url.QueryEscape(st.LastSessionToken))
	if err != nil {
		return nil, false, fmt.Errorf("cookie resume request failed: %w", err)
	}

	if !login.IsAuthenticated(page.Body, len(s.web.Cookies()) > 0) {
		s.reporter.Info("stored cookies are no longer valid, falling back to full login")
		return nil, false, nil
	}

	if err := s.persistSuccess(ctx, st, st.LastSessionToken, st.LastCustomerID); err != nil {
		return nil, false, err
	}
	s.reporter.Success("portal login via stored cookies")
	return &models.AuthSession{
		ID:            st.LastSessionToken,
		CustomerID:    st.LastCustomerID,
		Authenticated: true,
	}, true, nil
}

func (s *SessionManagerImpl) fullLogin(ctx context.Context, st *models.PersistedState) (*models.AuthSession, error) {
	s.reporter.Step("performing full portal login")
	s.web.ClearCookies()

	entry, err := s.web.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to open portal entry page: %w", err)
	}

	sessID, err := login.ExtractSessionID(entry.Body)
	if err != nil {
		return nil, err
	}

	form, err := s.web.FindForm(entry, "step1_anmeldung")
	if err != nil {
		if perr := s.persistFailure(ctx, st, login.ErrLoginFormNotFound); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("%w: %v", login.ErrLoginFormNotFound, err)
	}

	// The portal ships the form with its fields suppressed in the
	// markup; they have to be force-created before submission.
	form.Set("email", s.creds.PortalLogin)
	form.Set("password", s.creds.PortalPassword)
	form.Set("form_selected_language", "de")
	form.Set("Submit", "Anmelden")
	form.Set("subaction", "login")
	form.Set("sess_id", sessID)

	page, err := s.web.Submit(ctx, entry, form)
	if err != nil {
		return nil, fmt.Errorf("login submission failed: %w", err)
	}

	customerID := st.LastCustomerID
	if login.Classify(page.Body, true) == login.PagePinChallenge {
		page, customerID, err = s.resolvePinChallenge(ctx, page, sessID)
		if err != nil {
			return nil, err
		}
	}

	if !login.IsAuthenticated(page.Body, len(s.web.Cookies()) > 0) {
		ferr := login.ClassifyFailure(page.Body)
		if perr := s.persistFailure(ctx, st, ferr); perr != nil {
			return nil, perr
		}
		return nil, ferr
	}

	if err := s.persistSuccess(ctx, st, sessID, customerID); err != nil {
		return nil, err
	}
	s.reporter.Success("portal login")
	return &models.AuthSession{ID: sessID, CustomerID: customerID, Authenticated: true}, nil
}

// resolvePinChallenge handles the second-factor form: extract the
// customer id embedded in it, wait for the login PIN mail, submit the
// PIN together with customer id and session id.
func (s *SessionManagerImpl) resolvePinChallenge(ctx context.Context, page *models.Page, sessID string) (*models.Page, string, error) {
	s.reporter.Step("portal requests a login pin")

	customerID, err := login.ExtractCustomerID(page.Body)
	if err != nil {
		return nil, "", err
	}

	pinValue, err := s.pins.Resolve(ctx, models.ChallengeLoginPin)
	if err != nil {
		return nil, "", err
	}

	confirmed, err := s.web.PostForm(ctx, landingPath, url.Values{
		"sess_id":   {sessID},
		"subaction": {"login"},
		"c_id":      {customerID},
		"pin":       {pinValue},
	})
	if err != nil {
		return nil, "", fmt.Errorf("pin submission failed: %w", err)
	}
	return confirmed, customerID, nil
}

func (s *SessionManagerImpl) persistSuccess(ctx context.Context, st *models.PersistedState, sessID, customerID string) error {
	st.LastSessionToken = sessID
	if customerID != "" {
		st.LastCustomerID = customerID
	}
	if err := s.state.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	if err := s.cookies.Save(ctx, s.web.Cookies()); err != nil {
		return fmt.Errorf("failed to persist cookies: %w", err)
	}
	return nil
}

func (s *SessionManagerImpl) persistFailure(ctx context.Context, st *models.PersistedState, cause error) error {
	now := s.clock.Now()
	if errors.Is(cause, login.ErrCaptchaRequired) {
		st.LastCaptchaFailure = &now
	} else {
		st.LastFailedLogin = &now
	}
	if err := s.state.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// Ensure SessionManagerImpl implements the interface
var _ primary.SessionService = (*SessionManagerImpl)(nil)
