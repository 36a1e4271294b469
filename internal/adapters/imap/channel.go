// Package imap implements the MailChannel adapter with go-imap v2. The
// connection is opened lazily on first use and reused for the rest of
// the run.
package imap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/secondary"
)

// defaultIgnoredMailboxes are skipped during searches. Self-sent copies
// of provider mails would otherwise match the same subject filters.
var defaultIgnoredMailboxes = []string{"Sent"}

// Channel implements secondary.MailChannel over IMAP with TLS.
type Channel struct {
	addr     string
	login    string
	password string
	ignored  []string
	client   *imapclient.Client
}

// NewChannel creates a mail channel for the given server. A server
// without an explicit port gets the IMAPS default.
func NewChannel(server, login, password string) *Channel {
	if !strings.Contains(server, ":") {
		server += ":993"
	}
	return &Channel{
		addr:     server,
		login:    login,
		password: password,
		ignored:  defaultIgnoredMailboxes,
	}
}

// connect dials and authenticates on first use.
func (c *Channel) connect(ctx context.Context) (*imapclient.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	client, err := imapclient.DialTLS(c.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}

	if err := client.Login(c.login, c.password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("mailbox login as %s rejected: %w", c.login, err)
	}

	c.client = client
	return client, nil
}

// Verify connects, authenticates and selects INBOX.
func (c *Channel) Verify(ctx context.Context) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return fmt.Errorf("failed to select INBOX: %w", err)
	}
	return nil
}

// Search scans every selectable mailbox except the ignored ones and
// returns the matching messages.
func (c *Channel) Search(ctx context.Context, q secondary.MailQuery) ([]models.MailMessage, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	boxes, err := client.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to list mailboxes: %w", err)
	}

	var out []models.MailMessage
	for _, box := range boxes {
		if c.skip(box) {
			continue
		}

		msgs, err := c.searchMailbox(client, box.Mailbox, q)
		if err != nil {
			return nil, fmt.Errorf("search in %q failed: %w", box.Mailbox, err)
		}
		out = append(out, msgs...)
	}

	if q.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	}
	return out, nil
}

func (c *Channel) skip(box *imap.ListData) bool {
	for _, attr := range box.Attrs {
		if attr == imap.MailboxAttrNoSelect {
			return true
		}
	}
	for _, name := range c.ignored {
		if strings.EqualFold(box.Mailbox, name) {
			return true
		}
	}
	return false
}

func (c *Channel) searchMailbox(client *imapclient.Client, mailbox string, q secondary.MailQuery) ([]models.MailMessage, error) {
	if _, err := client.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("failed to select: %w", err)
	}

	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "Subject", Value: q.SubjectContains},
		},
	}
	if !q.Since.IsZero() {
		criteria.Since = q.Since
	}

	data, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	uids := data.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	fetchOptions := &imap.FetchOptions{Envelope: true}
	var section *imap.FetchItemBodySection
	if !q.HeadersOnly {
		section = &imap.FetchItemBodySection{}
		fetchOptions.BodySection = []*imap.FetchItemBodySection{section}
	}

	buffers, err := client.Fetch(imap.UIDSetNum(uids...), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	msgs := make([]models.MailMessage, 0, len(buffers))
	for _, buf := range buffers {
		msg := models.MailMessage{}
		if buf.Envelope != nil {
			msg.Subject = buf.Envelope.Subject
			msg.Date = buf.Envelope.Date
		}
		if section != nil {
			if raw := buf.FindBodySection(section); raw != nil {
				msg.Body = extractText(raw)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Close logs out and drops the connection.
func (c *Channel) Close() error {
	if c.client == nil {
		return nil
	}
	client := c.client
	c.client = nil
	if err := client.Logout().Wait(); err != nil {
		client.Close()
		return fmt.Errorf("logout failed: %w", err)
	}
	return client.Close()
}

// Ensure Channel implements the interface
var _ secondary.MailChannel = (*Channel)(nil)
