// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"
	"net/url"

	"github.com/example/renewbot/internal/models"
)

// WebSession is the portal HTTP capability: cookie-persistent requests
// plus HTML form introspection. The core never touches transport or
// markup mechanics directly.
type WebSession interface {
	// Get fetches a page. rawurl may be relative to the session base URL.
	Get(ctx context.Context, rawurl string) (*models.Page, error)

	// PostForm submits form-encoded fields to rawurl.
	PostForm(ctx context.Context, rawurl string, fields url.Values) (*models.Page, error)

	// FindForm locates the form on page whose name or id contains
	// nameContains. Fails if absent.
	FindForm(page *models.Page, nameContains string) (*models.Form, error)

	// Submit sends a form, resolving its action against the page URL.
	// Fields force-set via Form.Set are included even when the markup
	// never declared them.
	Submit(ctx context.Context, page *models.Page, form *models.Form) (*models.Page, error)

	// Cookies returns the cookies currently held for the portal.
	Cookies() []models.Cookie

	// SetCookies seeds the jar, replacing its current content.
	SetCookies(cookies []models.Cookie)

	// ClearCookies drops all cookies before a full credential login.
	ClearCookies()
}
