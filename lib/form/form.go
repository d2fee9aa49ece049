package form

// Field is one named value captured from a form at submit time. Type is the
// input type ("text", "email", "checkbox", "textarea", ...) when known.
type Field struct {
	Name  string
	Value string
	Type  string
}

// Form is the minimal view of a submitted form that the capture pipeline
// depends on, adapters exist for whatever actually renders the form.
type Form interface {
	// Fields enumerates the fields in document order.
	Fields() []Field
	// ContextText is the text surrounding the form, usually the modal or
	// popup it lives in, or the form title.
	ContextText() string
	PageURL() string
}

// Identified is implemented by forms that carry markup identifiers.
type Identified interface {
	ID() string
	ClassList() []string
}

// Page is implemented by forms that know about the page they are on.
type Page interface {
	PageTitle() string
	PageText() string
	Referrer() string
}

// Static is a Form backed by plain values, handy for tests and for
// submissions that were already extracted elsewhere.
type Static struct {
	FieldList []Field
	Context   string
	URL       string
	Id        string
	Classes   []string
	Title     string
	Text      string
	Referer   string
}

func (s Static) Fields() []Field     { return s.FieldList }
func (s Static) ContextText() string { return s.Context }
func (s Static) PageURL() string     { return s.URL }
func (s Static) ID() string          { return s.Id }
func (s Static) ClassList() []string { return s.Classes }
func (s Static) PageTitle() string   { return s.Title }
func (s Static) PageText() string    { return s.Text }
func (s Static) Referrer() string    { return s.Referer }
