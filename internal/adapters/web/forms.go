package web

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/example/renewbot/internal/models"
)

// FindForm scrapes the first form whose name or id contains
// nameContains. The form's declared inputs seed the field set; callers
// force-create anything the markup suppresses.
func (s *Session) FindForm(page *models.Page, nameContains string) (*models.Form, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var form *models.Form
	doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := sel.AttrOr("name", "")
		id := sel.AttrOr("id", "")
		if !strings.Contains(name, nameContains) && !strings.Contains(id, nameContains) {
			return true
		}

		form = &models.Form{
			Name:   name,
			Action: sel.AttrOr("action", ""),
			Method: strings.ToUpper(sel.AttrOr("method", "POST")),
			Fields: url.Values{},
		}
		collectFields(sel, form.Fields)
		return false
	})

	if form == nil {
		return nil, fmt.Errorf("no form matching %q on page", nameContains)
	}
	return form, nil
}

// collectFields gathers the pre-filled values of input, select and
// textarea controls.
func collectFields(form *goquery.Selection, fields url.Values) {
	form.Find("input").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			return
		}
		switch strings.ToLower(sel.AttrOr("type", "text")) {
		case "checkbox", "radio":
			if _, checked := sel.Attr("checked"); checked {
				fields.Set(name, sel.AttrOr("value", "on"))
			}
		case "submit", "button", "image", "file":
			// Submit controls are added explicitly by the caller.
		default:
			fields.Set(name, sel.AttrOr("value", ""))
		}
	})

	form.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			return
		}
		option := sel.Find("option[selected]").First()
		if option.Length() == 0 {
			option = sel.Find("option").First()
		}
		if option.Length() > 0 {
			fields.Set(name, option.AttrOr("value", option.Text()))
		}
	})

	form.Find("textarea").Each(func(_ int, sel *goquery.Selection) {
		if name, ok := sel.Attr("name"); ok && name != "" {
			fields.Set(name, sel.Text())
		}
	})
}
