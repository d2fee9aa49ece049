package htmlform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jetcargo-backend/lib/form"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title> Jet Cargo | Miami </title></head>
<body>
	<nav>Express Air Freight · Warehousing</nav>

	<div class="dmPopup quote-popup" id="popup-1">
		<h2>Express Air Freight Request</h2>
		<form id="quote" class="dmform  express">
			<input type="text" id="dmform-0" value=" Jane Doe ">
			<input type="email" name="dmform-1" value="jane@example.com">
			<input type="tel" placeholder="Phone" value="+1 305 555 0100">
			<input type="text" value="no name">
			<input type="hidden" name="token" value="abc">
			<input type="submit" value="Send">
			<input type="file" name="attachment">
			<input type="checkbox" name="Fragile" value="yes" checked>
			<input type="checkbox" name="Hazardous" value="yes">
			<input type="radio" name="incoterm" value="FOB">
			<input type="radio" name="incoterm" value="CIF" checked>
			<select name="origin">
				<option value="">Choose</option>
				<option value="MIA" selected>Miami</option>
			</select>
			<select name="destination">
				<option>Bogotá</option>
				<option>Caracas</option>
			</select>
			<textarea name="message">
				Two pallets
			</textarea>
			<input type="text" name="empty" value="   ">
			<button type="submit">Send</button>
		</form>
	</div>

	<form name="contact">
		<div class="dmform-title"> Let's
			chat </div>
		<input type="email" name="email">
	</form>
</body>
</html>`

func parse(t *testing.T) *Document {
	doc, err := Parse(context.Background(), strings.NewReader(page), "https://www.jetcargo.us/")
	require.NoError(t, err)
	return doc
}

func TestFields(t *testing.T) {
	doc := parse(t)
	forms := doc.Forms()
	require.Len(t, forms, 2)

	expected := []form.Field{
		{Name: "dmform-0", Value: "Jane Doe", Type: "text"},
		{Name: "dmform-1", Value: "jane@example.com", Type: "email"},
		{Name: "Phone", Value: "+1 305 555 0100", Type: "tel"},
		{Name: "field_3", Value: "no name", Type: "text"},
		{Name: "Fragile", Value: "yes", Type: "checkbox"},
		{Name: "incoterm", Value: "CIF", Type: "radio"},
		{Name: "origin", Value: "MIA", Type: "select"},
		{Name: "destination", Value: "Bogotá", Type: "select"},
		{Name: "message", Value: "Two pallets", Type: "textarea"},
	}
	diff := cmp.Diff(expected, forms[0].Fields())
	if diff != "" {
		t.Fatal(diff)
	}

	// the contact form has no values filled in
	require.Empty(t, forms[1].Fields())
}

func TestContext(t *testing.T) {
	doc := parse(t)
	doc.SetReferrer("https://google.com")
	forms := doc.Forms()

	quote := forms[0]
	require.Equal(t, 0, quote.Index())
	require.Equal(t, "quote", quote.ID())
	require.Equal(t, []string{"dmform", "express"}, quote.ClassList())
	require.True(t, strings.HasPrefix(quote.ContextText(), "Express Air Freight Request"))
	require.Equal(t, "https://www.jetcargo.us/", quote.PageURL())
	require.Equal(t, "Jet Cargo | Miami", quote.PageTitle())
	require.Equal(t, "https://google.com", quote.Referrer())
	require.Contains(t, quote.PageText(), "Warehousing")

	contact := forms[1]
	require.Equal(t, "contact", contact.ID())
	require.Equal(t, "Let's chat", contact.ContextText())
}

func TestSet(t *testing.T) {
	doc := parse(t)
	contact := doc.Forms()[1]

	contact.Set("email", "ops@jetcargo.us")
	contact.Set("name", "Ops")
	contact.Set("name", "Operations")

	expected := []form.Field{
		{Name: "email", Value: "ops@jetcargo.us", Type: "email"},
		{Name: "name", Value: "Operations", Type: "text"},
	}
	diff := cmp.Diff(expected, contact.Fields())
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient()
	doc, err := Fetch(context.Background(), client, server.URL+"/quote")
	require.NoError(t, err)
	require.Len(t, doc.Forms(), 2)
	require.Equal(t, server.URL+"/quote", doc.Forms()[0].PageURL())

	_, err = Fetch(context.Background(), client, server.URL+"/missing")
	require.Error(t, err)
}
