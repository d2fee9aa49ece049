package relay

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"jetcargo-backend/lib/ghl"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/timezone"

	"github.com/antzucaro/matchr"
)

const (
	ContactSource     = "Website - jetcargo.us"
	OpportunitySource = "Website Form"
	maxTagLength      = 50
	unknownName       = "Unknown"
)

// keys that already have a dedicated contact field or are page metadata
var untaggedKeys = map[string]bool{
	submission.KeyEmail:       true,
	submission.KeyName:        true,
	submission.KeyPhone:       true,
	submission.KeyServiceType: true,
	submission.KeyPageURL:     true,
	submission.KeyPageTitle:   true,
	submission.KeyTimestamp:   true,
	submission.KeyUserAgent:   true,
	submission.KeyReferrer:    true,
}

// titleKey turns a field key into a label, ex. "shipping_origin" becomes
// "Shipping Origin". Every letter that follows a non-letter is upper cased,
// the rest are lower cased.
func titleKey(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	var out strings.Builder
	prevLetter := false
	for _, r := range key {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			out.WriteRune(unicode.ToUpper(r))
		case isLetter:
			out.WriteRune(unicode.ToLower(r))
		default:
			out.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return out.String()
}

func truncateTag(tag string) string {
	if utf8.RuneCountInString(tag) <= maxTagLength {
		return tag
	}
	runes := []rune(tag)
	return string(runes[:maxTagLength-3]) + "..."
}

// Tags are the service title followed by one "Key: value" tag for every
// remaining field, in key order.
func Tags(sub submission.Submission) []string {
	tags := []string{sub.ServiceType().Title()}
	for _, key := range sub.Keys() {
		value := sub[key]
		if untaggedKeys[key] || value == "" {
			continue
		}
		tags = append(tags, truncateTag(fmt.Sprintf("%s: %s", titleKey(key), value)))
	}
	return tags
}

// splitName splits a full name into a first name and the rest.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return unknownName, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func ContactInput(sub submission.Submission) ghl.ContactInput {
	input := ghl.ContactInput{
		Email:       sub.Email(),
		Phone:       sub.Phone(),
		CompanyName: sub.Company(),
		Source:      ContactSource,
		Tags:        Tags(sub),
		CustomFields: []ghl.CustomField{{
			Key:        submission.KeyServiceType,
			FieldValue: string(sub.ServiceType()),
		}},
	}
	if name := sub.Name(); name != "" {
		input.FirstName, input.LastName = splitName(name)
	}
	return input
}

// OpportunityName is "<Service Title> - <name> - <YYYY-MM-DD HH:MM>" with
// the time in the business timezone.
func OpportunityName(sub submission.Submission, now time.Time) string {
	name := sub.Name()
	if name == "" {
		name = unknownName
	}
	return fmt.Sprintf("%s - %s - %s", sub.ServiceType().Title(), name, timezone.Stamp(now))
}

// pickContact chooses the existing contact whose name is closest to the
// submitted one, the first contact wins ties.
func pickContact(contacts []ghl.Contact, name string) (ghl.Contact, bool) {
	if len(contacts) == 0 {
		return ghl.Contact{}, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return contacts[0], true
	}

	best := 0
	bestScore := -1.0
	for i, c := range contacts {
		score := matchr.JaroWinkler(name, strings.ToLower(c.FullName()), false)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return contacts[best], true
}
