package htmlform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"jetcargo-backend/lib/form"
	"jetcargo-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("jetcargo.lib.form.htmlform")

// the enclosing element a form is rendered in when it is opened from a
// "request a quote" button
const modalSelector = `[class*="modal"], [id*="modal"], .popup, [class*="popup"]`

const titleSelector = ".dmform-title"

var skippedTypes = map[string]bool{
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
	"hidden": true,
	"file":   true,
}

var whitespace = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Document is a parsed page with zero or more forms on it.
type Document struct {
	doc      *goquery.Document
	pageURL  string
	title    string
	text     string
	referrer string
}

// Parse reads an html page, pageURL is the address the page was served
// from and may be empty.
func Parse(ctx context.Context, r io.Reader, pageURL string) (*Document, error) {
	_, span := tracer.Start(ctx, "Parse")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	d := &Document{
		doc:     doc,
		pageURL: pageURL,
		title:   collapse(doc.Find("title").First().Text()),
		text:    collapse(doc.Find("body").Text()),
	}
	span.SetAttributes(
		attribute.String("page_url", pageURL),
		attribute.Int("forms", doc.Find("form").Length()),
	)
	return d, nil
}

// NewClient creates the http client used by Fetch. Marketing sites tend to
// sit behind cloudflare so the bypass transport is always installed.
func NewClient() *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "jetcargo.lib.form.htmlform/http")
	return client
}

// Fetch downloads and parses the page at link.
func Fetch(ctx context.Context, client *resty.Client, link string) (*Document, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("fetch %s: unexpected status %s", link, res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return Parse(ctx, bytes.NewBuffer(res.Body()), link)
}

func (d *Document) SetReferrer(referrer string) {
	d.referrer = referrer
}

// Forms returns every form on the page in document order.
func (d *Document) Forms() []*Form {
	var forms []*Form
	d.doc.Find("form").Each(func(i int, s *goquery.Selection) {
		forms = append(forms, &Form{
			sel:       s,
			doc:       d,
			index:     i,
			overrides: map[string]string{},
		})
	})
	return forms
}

// Form adapts a <form> element to form.Form.
type Form struct {
	sel       *goquery.Selection
	doc       *Document
	index     int
	overrides map[string]string
	extra     []string
}

var (
	_ form.Form       = (*Form)(nil)
	_ form.Identified = (*Form)(nil)
	_ form.Page       = (*Form)(nil)
)

// Index is the position of the form on the page.
func (f *Form) Index() int {
	return f.index
}

// Set overrides the value of the field called name, a field that does not
// exist on the form is appended as a text field.
func (f *Form) Set(name, value string) {
	if _, ok := f.overrides[name]; !ok && !f.hasField(name) {
		f.extra = append(f.extra, name)
	}
	f.overrides[name] = value
}

func (f *Form) hasField(name string) bool {
	found := false
	f.each(func(_ *goquery.Selection, fieldName, _ string) {
		if fieldName == name {
			found = true
		}
	})
	return found
}

func fieldType(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "textarea":
		return "textarea"
	case "select":
		return "select"
	}
	typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
	if typ == "" {
		return "text"
	}
	return typ
}

func fieldValue(s *goquery.Selection, typ string) (string, bool) {
	switch typ {
	case "textarea":
		return s.Text(), true
	case "select":
		option := s.Find("option[selected]").First()
		if option.Length() == 0 {
			option = s.Find("option").First()
		}
		if option.Length() == 0 {
			return "", false
		}
		return option.AttrOr("value", option.Text()), true
	case "checkbox", "radio":
		_, checked := s.Attr("checked")
		if !checked {
			return "", false
		}
		return s.AttrOr("value", "on"), true
	}
	return s.AttrOr("value", ""), true
}

// fieldName prefers the name attribute, then the id, then the placeholder.
func fieldName(s *goquery.Selection, index int) string {
	for _, attr := range []string{"name", "id", "placeholder"} {
		v := strings.TrimSpace(s.AttrOr(attr, ""))
		if v != "" {
			return v
		}
	}
	return fmt.Sprintf("field_%d", index)
}

func (f *Form) each(fn func(s *goquery.Selection, name, typ string)) {
	f.sel.Find("input, textarea, select").Each(func(i int, s *goquery.Selection) {
		typ := fieldType(s)
		if skippedTypes[typ] {
			return
		}
		fn(s, fieldName(s, i), typ)
	})
}

func (f *Form) Fields() []form.Field {
	var fields []form.Field
	f.each(func(s *goquery.Selection, name, typ string) {
		value, ok := fieldValue(s, typ)
		if override, overridden := f.overrides[name]; overridden {
			value, ok = override, true
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return
		}
		fields = append(fields, form.Field{Name: name, Value: value, Type: typ})
	})
	for _, name := range f.extra {
		value := strings.TrimSpace(f.overrides[name])
		if value == "" {
			continue
		}
		fields = append(fields, form.Field{Name: name, Value: value, Type: "text"})
	}
	return fields
}

// ContextText is the text of the modal the form is opened in, falling back
// to the title the site builder renders above the form.
func (f *Form) ContextText() string {
	modal := f.sel.Closest(modalSelector)
	if modal.Length() > 0 {
		return collapse(modal.Text())
	}
	return collapse(f.sel.Find(titleSelector).First().Text())
}

func (f *Form) ID() string {
	return f.sel.AttrOr("id", f.sel.AttrOr("name", ""))
}

func (f *Form) ClassList() []string {
	return strings.Fields(f.sel.AttrOr("class", ""))
}

func (f *Form) PageURL() string   { return f.doc.pageURL }
func (f *Form) PageTitle() string { return f.doc.title }
func (f *Form) PageText() string  { return f.doc.text }
func (f *Form) Referrer() string  { return f.doc.referrer }
