package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"jetcargo-backend/lib/submission"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// Phone requires at least 10 digits, any formatting is ignored.
func Phone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 10
}

func Name(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= 2
}

const (
	MessageNameInvalid   = "Please enter a valid name (at least 2 characters)"
	MessageEmailRequired = "Email is required"
	MessageEmailInvalid  = "Please enter a valid email"
	MessagePhoneRequired = "Phone is required"
	MessagePhoneInvalid  = "Please enter a valid phone number (at least 10 digits)"
)

// Submission returns the problems with sub in field order (name, email,
// phone), an empty result means it can be delivered.
func Submission(sub submission.Submission) []string {
	var errs []string

	if !Name(sub.Name()) {
		errs = append(errs, MessageNameInvalid)
	}

	email := strings.TrimSpace(sub.Email())
	switch {
	case email == "":
		errs = append(errs, MessageEmailRequired)
	case !Email(email):
		errs = append(errs, MessageEmailInvalid)
	}

	phone := strings.TrimSpace(sub.Phone())
	switch {
	case phone == "":
		errs = append(errs, MessagePhoneRequired)
	case !Phone(phone):
		errs = append(errs, MessagePhoneInvalid)
	}

	return errs
}
