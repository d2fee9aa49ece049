package submission

import (
	"sort"

	"jetcargo-backend/lib/servicetype"
)

// keys derived from the raw fields
const (
	KeyServiceType = "service_type"
	KeyEmail       = "email"
	KeyPhone       = "phone"
	KeyName        = "name"
	KeyCompany     = "company"

	KeyShippingOrigin     = "shipping_origin"
	KeyFinalDestination   = "final_destination"
	KeyCargoDetails       = "cargo_details"
	KeyDescriptionOfGoods = "description_of_goods"
	KeyMessage            = "message"
	KeySpecialHandling    = "special_handling"

	// InputSuffix is appended to a raw field whose name collides with an
	// alias key but whose value was not picked for that alias.
	InputSuffix = "_input"
)

// page metadata attached at capture time
const (
	KeyPageURL   = "page_url"
	KeyPageTitle = "page_title"
	KeyTimestamp = "timestamp"
	KeyUserAgent = "user_agent"
	KeyReferrer  = "referrer"
)

// MetadataKeys are attached by the capture pipeline rather than typed in by
// a visitor.
var MetadataKeys = []string{
	KeyServiceType,
	KeyPageURL,
	KeyPageTitle,
	KeyTimestamp,
	KeyUserAgent,
	KeyReferrer,
}

// Submission is the flat set of field values captured when a form is
// submitted, plus the aliases and metadata derived from them.
type Submission map[string]string

func (s Submission) get(key string) string {
	if s == nil {
		return ""
	}
	return s[key]
}

func (s Submission) Email() string   { return s.get(KeyEmail) }
func (s Submission) Phone() string   { return s.get(KeyPhone) }
func (s Submission) Name() string    { return s.get(KeyName) }
func (s Submission) Company() string { return s.get(KeyCompany) }

// ServiceType returns the classified code, GeneralContact if the
// submission was never classified or carries an unknown code.
func (s Submission) ServiceType() servicetype.Code {
	code, _ := servicetype.Parse(s.get(KeyServiceType))
	return code
}

// Keys returns the keys in sorted order.
func (s Submission) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (s Submission) Clone() Submission {
	out := make(Submission, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// IsMetadata reports whether key is attached by the pipeline.
func IsMetadata(key string) bool {
	for _, k := range MetadataKeys {
		if k == key {
			return true
		}
	}
	return false
}
