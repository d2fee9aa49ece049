package capture

import (
	"time"

	"jetcargo-backend/lib/form"
	"jetcargo-backend/lib/servicetype"
	"jetcargo-backend/lib/submission"
)

// DefaultReferrer is recorded when the page has no referrer.
const DefaultReferrer = "direct"

// Meta is what the host environment knows about a submission that the form
// itself does not.
type Meta struct {
	// Now defaults to time.Now.
	Now       time.Time
	UserAgent string
	// Referrer overrides the referrer of the page the form is on.
	Referrer string
}

// ClassifierContext collects everything the classifier may look at from f.
func ClassifierContext(f form.Form) servicetype.Context {
	ctx := servicetype.Context{
		ModalText: f.ContextText(),
		PageURL:   f.PageURL(),
	}
	if identified, ok := f.(form.Identified); ok {
		ctx.FormID = identified.ID()
		ctx.FormClassList = identified.ClassList()
	}
	if page, ok := f.(form.Page); ok {
		ctx.PageText = page.PageText()
	}
	return ctx
}

// Build captures f into a Submission: the fields are normalized, the form
// is classified and page metadata is attached. The result always carries a
// valid service_type.
func Build(f form.Form, meta Meta) submission.Submission {
	sub := submission.Normalize(f.Fields())

	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}

	referrer := meta.Referrer
	title := ""
	if page, ok := f.(form.Page); ok {
		title = page.PageTitle()
		if referrer == "" {
			referrer = page.Referrer()
		}
	}
	if referrer == "" {
		referrer = DefaultReferrer
	}

	sub[submission.KeyServiceType] = string(servicetype.Classify(ClassifierContext(f)))
	sub[submission.KeyPageURL] = f.PageURL()
	sub[submission.KeyPageTitle] = title
	sub[submission.KeyTimestamp] = now.UTC().Format(time.RFC3339)
	sub[submission.KeyUserAgent] = meta.UserAgent
	sub[submission.KeyReferrer] = referrer

	return sub
}
