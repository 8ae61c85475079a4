package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

func TestUsername_Boundaries(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "ab", wantErr: ErrUsernameLength},
		{in: "abc", want: "abc"},
		{in: strings.Repeat("a", 20), want: strings.Repeat("a", 20)},
		{in: strings.Repeat("a", 21), wantErr: ErrUsernameLength},
		{in: "  alice_1  ", want: "alice_1"},
		{in: "bad name", wantErr: ErrUsernameCharset},
		{in: "bad-name", wantErr: ErrUsernameCharset},
		{in: "Admin", wantErr: ErrUsernameReserved},
		{in: "UNDEFINED", wantErr: ErrUsernameReserved},
		{in: "   ", wantErr: ErrRequired},
	}

	for _, tc := range cases {
		got, err := Username(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("Username(%q): expected error %v, got %v", tc.in, tc.wantErr, err)
		}
		if got != tc.want {
			t.Fatalf("Username(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestPassword(t *testing.T) {
	if _, err := Password("12345"); !errors.Is(err, ErrPasswordLength) {
		t.Fatalf("expected ErrPasswordLength, got %v", err)
	}
	if _, err := Password(strings.Repeat("x", 129)); !errors.Is(err, ErrPasswordLength) {
		t.Fatalf("expected ErrPasswordLength for 129 chars, got %v", err)
	}
	if _, err := Password("PassWord"); !errors.Is(err, ErrPasswordCommon) {
		t.Fatalf("expected ErrPasswordCommon, got %v", err)
	}
	got, err := Password(" secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != " secret1" {
		t.Fatalf("password must not be trimmed, got %q", got)
	}
}

func TestMovieID_Boundaries(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "0", wantErr: ErrMovieIDFormat},
		{in: "-1", wantErr: ErrMovieIDFormat},
		{in: "1", want: 1},
		{in: "999999999", want: 999999999},
		{in: "1000000000", wantErr: ErrMovieIDRange},
		{in: "99999999999999999999", wantErr: ErrMovieIDRange},
		{in: "12abc", wantErr: ErrMovieIDFormat},
		{in: "4.5", wantErr: ErrMovieIDFormat},
		{in: " 42 ", want: 42},
		{in: "", wantErr: ErrRequired},
	}

	for _, tc := range cases {
		got, err := MovieID(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("MovieID(%q): expected error %v, got %v", tc.in, tc.wantErr, err)
		}
		if got != tc.want {
			t.Fatalf("MovieID(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestMovieTitle_EscapesMarkup(t *testing.T) {
	got, err := MovieTitle("  <b>Tom & Jerry's</b> ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "&lt;b&gt;Tom &amp; Jerry&#x27;s&lt;&#x2F;b&gt;"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if _, err := MovieTitle(strings.Repeat("t", 201)); !errors.Is(err, ErrTitleLength) {
		t.Fatalf("expected ErrTitleLength, got %v", err)
	}
	if _, err := MovieTitle(strings.Repeat("é", 200)); err != nil {
		t.Fatalf("200 multibyte characters should pass, got %v", err)
	}
	if _, err := MovieTitle(" "); !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}
}

func TestPosterURL(t *testing.T) {
	got, err := PosterURL("")
	if err != nil || got != nil {
		t.Fatalf("empty poster url should be (nil, nil), got (%v, %v)", got, err)
	}

	got, err = PosterURL("https://image.tmdb.org/t/p/w500/abc.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("unexpected url: %v", got)
	}

	for _, bad := range []string{"ftp://example.com/a.jpg", "example.com/a.jpg", "not a url"} {
		if _, err := PosterURL(bad); !errors.Is(err, ErrPosterURLFormat) {
			t.Fatalf("PosterURL(%q): expected ErrPosterURLFormat, got %v", bad, err)
		}
	}

	long := "https://example.com/" + strings.Repeat("a", 481)
	if _, err := PosterURL(long); !errors.Is(err, ErrPosterURLLength) {
		t.Fatalf("expected ErrPosterURLLength, got %v", err)
	}
}

func TestSearchQuery(t *testing.T) {
	got, err := SearchQuery("  matrix ")
	if err != nil || got != "matrix" {
		t.Fatalf("expected matrix, got %q (%v)", got, err)
	}
	if _, err := SearchQuery(strings.Repeat("q", 101)); !errors.Is(err, ErrSearchQueryLength) {
		t.Fatalf("expected ErrSearchQueryLength, got %v", err)
	}
	if _, err := SearchQuery(""); !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}
}

func TestCollector_KeepsEveryFailure(t *testing.T) {
	var v Collector
	_, err := Username("x")
	v.Check("username", err)
	_, err = Password("123")
	v.Check("password", err)
	v.Check("ok", nil)

	err = v.Err()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var fields Errors
	if !errors.As(err, &fields) {
		t.Fatalf("expected Errors, got %T", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(fields))
	}
	if fields[0].Field != "username" || fields[1].Field != "password" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestCollector_NoFailures(t *testing.T) {
	var v Collector
	v.Check("a", nil)
	if err := v.Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := Field("movieId", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
