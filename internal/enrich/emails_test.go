package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  int
	}{
		{"maria@starlight.example", rankBusinessPersonal},
		{"info@starlight.example", rankBusinessGeneric},
		{"hello@starlight.example", rankBusinessGeneric},
		{"starlightdance@gmail.com", rankFreeMail},
		{"noreply@sentry.io", rankUnusable},
		{"user@something.wix.com", rankUnusable},
		{"hero@2x.png", rankUnusable},
		{"not-an-email", rankUnusable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rankEmail(tt.email), tt.email)
	}
}

func TestBestEmail_PrefersBusinessPersonal(t *testing.T) {
	t.Parallel()

	got := bestEmail([]string{
		"studio@gmail.com",
		"info@starlight.example",
		"maria@starlight.example",
	})
	assert.Equal(t, "maria@starlight.example", got)
}

func TestBestEmail_GenericBeatsFreeMail(t *testing.T) {
	t.Parallel()

	got := bestEmail([]string{"studio@gmail.com", "info@starlight.example"})
	assert.Equal(t, "info@starlight.example", got)
}

func TestBestEmail_FirstAmongEquals(t *testing.T) {
	t.Parallel()

	got := bestEmail([]string{"maria@starlight.example", "joe@starlight.example"})
	assert.Equal(t, "maria@starlight.example", got)
}

func TestBestEmail_NoneUsable(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bestEmail([]string{"x@wordpress.com", "junk"}))
	assert.Empty(t, bestEmail(nil))
}

func TestWebsiteDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.starlight.example/classes", "starlight.example"},
		{"http://starlight.example", "starlight.example"},
		{"https://starlight.example:8080/?x=1", "starlight.example"},
		{"WWW.Starlight.Example", "starlight.example"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, websiteDomain(tt.in), tt.in)
	}
}
