package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

const (
	maxStringLength   = 255
	minPasswordLength = 8
)

// label turns a field key into the words used in messages.
func label(field string) string { return strings.ReplaceAll(field, "_", " ") }

func requireString(v *ValidationError, field, s string) {
	if strings.TrimSpace(s) == "" {
		v.Add(field, fmt.Sprintf("The %s field is required.", label(field)))
		return
	}
	maxLength(v, field, s)
}

func maxLength(v *ValidationError, field, s string) {
	if utf8.RuneCountInString(s) > maxStringLength {
		v.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), maxStringLength))
	}
}

func checkEmail(v *ValidationError, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		v.Add("email", "The email field is required.")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		v.Add("email", "The email field must be a valid email address.")
		return
	}
	maxLength(v, "email", email)
}

func checkNewPassword(v *ValidationError, password, confirmation string) {
	if password == "" {
		v.Add("password", "The password field is required.")
		return
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLength))
	}
	if password != confirmation {
		v.Add("password", "The password field confirmation does not match.")
	}
}

func parseStatus(v *ValidationError, raw string) (domain.TaskStatus, bool) {
	s := domain.TaskStatus(raw)
	if !s.Valid() {
		v.Add("status", "The selected status is invalid.")
		return "", false
	}
	return s, true
}

func parsePriority(v *ValidationError, raw string) (domain.TaskPriority, bool) {
	p := domain.TaskPriority(raw)
	if !p.Valid() {
		v.Add("priority", "The selected priority is invalid.")
		return "", false
	}
	return p, true
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp and keeps
// only the date part.
func parseDueDate(v *ValidationError, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	v.Add("due_date", "The due date field must be a valid date.")
	return time.Time{}, false
}
