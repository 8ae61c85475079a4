// Package validation is the only decoder of untrusted request fields.
//
// Every rule is a pure function: it takes the raw value and returns either the
// normalized value or a rejection reason. A Collector runs several rules and
// keeps every failure, not just the first one.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 20
	PasswordMinLen    = 6
	PasswordMaxLen    = 128
	MaxMovieID        = 999_999_999
	TitleMaxLen       = 200
	PosterURLMaxLen   = 500
	SearchQueryMaxLen = 100
)

// Rejection reasons. Messages are phrased to follow the field name.
var (
	ErrRequired          = errors.New("is required")
	ErrUsernameLength    = errors.New("must be between 3 and 20 characters")
	ErrUsernameCharset   = errors.New("may only contain letters, digits and underscores")
	ErrUsernameReserved  = errors.New("is not allowed")
	ErrPasswordLength    = errors.New("must be between 6 and 128 characters")
	ErrPasswordCommon    = errors.New("is too common, choose a stronger password")
	ErrMovieIDFormat     = errors.New("must be a positive integer")
	ErrMovieIDRange      = errors.New("must not exceed 999999999")
	ErrTitleLength       = errors.New("must not exceed 200 characters")
	ErrPosterURLFormat   = errors.New("must be an absolute http or https URL")
	ErrPosterURLLength   = errors.New("must not exceed 500 characters")
	ErrSearchQueryLength = errors.New("must not exceed 100 characters")
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	reservedUsernames = map[string]struct{}{
		"admin": {}, "root": {}, "user": {}, "test": {}, "null": {}, "undefined": {},
	}

	commonPasswords = map[string]struct{}{
		"123456": {}, "password": {}, "123456789": {}, "qwerty": {}, "abc123": {},
	}

	// Same character set the frontend's escape() used, so stored titles
	// render identically in both.
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
		`\`, "&#x5C;",
		"`", "&#96;",
	)

	urlChecker = validator.New()
)

// Required rejects empty or whitespace-only values.
func Required(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrRequired
	}
	return nil
}

// Username trims and checks length, charset and the reserved list.
func Username(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrRequired
	}
	if n := utf8.RuneCountInString(s); n < UsernameMinLen || n > UsernameMaxLen {
		return "", ErrUsernameLength
	}
	if !usernamePattern.MatchString(s) {
		return "", ErrUsernameCharset
	}
	if _, reserved := reservedUsernames[strings.ToLower(s)]; reserved {
		return "", ErrUsernameReserved
	}
	return s, nil
}

// Password checks length and the common-password list. It is not trimmed.
func Password(raw string) (string, error) {
	if raw == "" {
		return "", ErrRequired
	}
	if n := utf8.RuneCountInString(raw); n < PasswordMinLen || n > PasswordMaxLen {
		return "", ErrPasswordLength
	}
	if _, common := commonPasswords[strings.ToLower(raw)]; common {
		return "", ErrPasswordCommon
	}
	return raw, nil
}

// MovieID parses an external catalog id: a positive integer up to MaxMovieID.
func MovieID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrRequired
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
			return 0, ErrMovieIDRange
		}
		return 0, ErrMovieIDFormat
	}
	if id <= 0 {
		return 0, ErrMovieIDFormat
	}
	if id > MaxMovieID {
		return 0, ErrMovieIDRange
	}
	return id, nil
}

// MovieTitle trims, bounds and HTML-escapes a title.
func MovieTitle(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrRequired
	}
	if utf8.RuneCountInString(s) > TitleMaxLen {
		return "", ErrTitleLength
	}
	return Sanitize(s), nil
}

// PosterURL is optional: an empty value yields (nil, nil).
func PosterURL(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if len(s) > PosterURLMaxLen {
		return nil, ErrPosterURLLength
	}
	if err := urlChecker.Var(s, "http_url"); err != nil {
		return nil, ErrPosterURLFormat
	}
	return &s, nil
}

// SearchQuery trims, bounds and HTML-escapes a free-text query.
func SearchQuery(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrRequired
	}
	if utf8.RuneCountInString(s) > SearchQueryMaxLen {
		return "", ErrSearchQueryLength
	}
	return Sanitize(s), nil
}

// Sanitize escapes markup-significant characters.
func Sanitize(s string) string {
	return htmlEscaper.Replace(s)
}
