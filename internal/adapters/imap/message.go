package imap

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// extractText pulls a plain-text body out of a raw RFC 5322 message.
// text/plain wins; an html-only message is reduced to its text nodes.
// Anything unparseable falls back to the raw bytes so PIN extraction
// still has something to scan.
func extractText(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}

	var plain, html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, _ := header.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch mediaType {
		case "text/plain":
			plain = string(body)
		case "text/html":
			html = string(body)
		}
		if plain != "" {
			break
		}
	}

	switch {
	case plain != "":
		return plain
	case html != "":
		return htmlToText(html)
	default:
		return string(raw)
	}
}

func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}
