package app

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// webCall records one request issued against the mock web session.
type webCall struct {
	method string // GET, POST or SUBMIT
	url    string
	fields url.Values
}

// mockWebSession implements secondary.WebSession for testing. Responses
// are produced by the injected handler; every call is recorded.
type mockWebSession struct {
	handler func(call webCall) (*models.Page, error)
	forms   map[string]*models.Form
	calls   []webCall
	cookies []models.Cookie
	cleared bool
}

func newMockWebSession(handler func(call webCall) (*models.Page, error)) *mockWebSession {
	return &mockWebSession{
		handler: handler,
		forms:   make(map[string]*models.Form),
		cookies: []models.Cookie{{Name: "PHPSESSID", Value: "jar"}},
	}
}

func (m *mockWebSession) do(call webCall) (*models.Page, error) {
	m.calls = append(m.calls, call)
	// A real jar picks a session cookie up from the first response.
	if len(m.cookies) == 0 {
		m.cookies = []models.Cookie{{Name: "PHPSESSID", Value: "fresh"}}
	}
	if m.handler == nil {
		return &models.Page{Body: ""}, nil
	}
	return m.handler(call)
}

func (m *mockWebSession) Get(ctx context.Context, rawurl string) (*models.Page, error) {
	return m.do(webCall{method: "GET", url: rawurl})
}

func (m *mockWebSession) PostForm(ctx context.Context, rawurl string, fields url.Values) (*models.Page, error) {
	return m.do(webCall{method: "POST", url: rawurl, fields: fields})
}

func (m *mockWebSession) FindForm(page *models.Page, nameContains string) (*models.Form, error) {
	if f, ok := m.forms[nameContains]; ok {
		return f, nil
	}
	return nil, errors.New("form not found")
}

func (m *mockWebSession) Submit(ctx context.Context, page *models.Page, form *models.Form) (*models.Page, error) {
	return m.do(webCall{method: "SUBMIT", url: form.Action, fields: form.Fields})
}

func (m *mockWebSession) Cookies() []models.Cookie      { return m.cookies }
func (m *mockWebSession) SetCookies(c []models.Cookie)  { m.cookies = c }
func (m *mockWebSession) ClearCookies() {
	m.cookies = nil
	m.cleared = true
}

// postCalls filters the recorded calls down to POST and SUBMIT requests.
func (m *mockWebSession) postCalls() []webCall {
	var out []webCall
	for _, c := range m.calls {
		if c.method != "GET" {
			out = append(out, c)
		}
	}
	return out
}

// mockMailChannel implements secondary.MailChannel for testing. Each
// Search pops the next scripted result; the script repeats its last
// entry once exhausted.
type mockMailChannel struct {
	results   [][]models.MailMessage
	searchErr error
	verifyErr error
	queries   []secondary.MailQuery
	closed    bool
}

func (m *mockMailChannel) Search(ctx context.Context, q secondary.MailQuery) ([]models.MailMessage, error) {
	m.queries = append(m.queries, q)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.results) == 0 {
		return nil, nil
	}
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res, nil
}

func (m *mockMailChannel) Verify(ctx context.Context) error { return m.verifyErr }
func (m *mockMailChannel) Close() error {
	m.closed = true
	return nil
}

// fakeClock implements secondary.Clock. Sleep advances the clock
// without real delay.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// mockStateStore implements secondary.StateStore in memory.
type mockStateStore struct {
	st      models.PersistedState
	saves   int
	loadErr error
	saveErr error
}

func (m *mockStateStore) Load(ctx context.Context) (*models.PersistedState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	st := m.st
	return &st, nil
}

func (m *mockStateStore) Save(ctx context.Context, st *models.PersistedState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.st = *st
	m.saves++
	return nil
}

// mockCookieStore implements secondary.CookieStore in memory.
type mockCookieStore struct {
	cookies []models.Cookie
	saved   int
	loadErr error
}

func (m *mockCookieStore) Load(ctx context.Context) ([]models.Cookie, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.cookies, nil
}

func (m *mockCookieStore) Save(ctx context.Context, cookies []models.Cookie) error {
	m.cookies = cookies
	m.saved++
	return nil
}

// mockReporter implements secondary.Reporter, counting events.
type mockReporter struct {
	steps     int
	successes int
	warnings  int
	infos     int
}

func (m *mockReporter) Step(format string, args ...any)    { m.steps++ }
func (m *mockReporter) Success(format string, args ...any) { m.successes++ }
func (m *mockReporter) Warn(format string, args ...any)    { m.warnings++ }
func (m *mockReporter) Info(format string, args ...any)    { m.infos++ }

// mockHistory implements secondary.HistoryRepository in memory.
type mockHistory struct {
	records   []*secondary.RunRecord
	recordErr error
}

func (m *mockHistory) Record(ctx context.Context, rec *secondary.RunRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	return m.records, nil
}

// mockPinResolver implements primary.PinResolver.
type mockPinResolver struct {
	pin   string
	err   error
	kinds []models.ChallengeKind
}

func (m *mockPinResolver) Resolve(ctx context.Context, kind models.ChallengeKind) (string, error) {
	m.kinds = append(m.kinds, kind)
	if m.err != nil {
		return "", m.err
	}
	return m.pin, nil
}

// mockSessionService implements primary.SessionService.
type mockSessionService struct {
	session *models.AuthSession
	err     error
	calls   int
}

func (m *mockSessionService) Login(ctx context.Context) (*models.AuthSession, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

// mockDiscoveryService implements primary.DiscoveryService.
type mockDiscoveryService struct {
	contractID string
	err        error
	calls      int
}

func (m *mockDiscoveryService) Discover(ctx context.Context) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.contractID, nil
}

// mockExtensionService implements primary.ExtensionService.
type mockExtensionService struct {
	result *primary.ExtensionResult
	err    error
	calls  int
}

func (m *mockExtensionService) Extend(ctx context.Context, session *models.AuthSession, contractID string) (*primary.ExtensionResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
