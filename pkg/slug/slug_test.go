package slug_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestop/backend/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Air Max 90 (Red)":      "air-max-90-red",
		"  Trending This Week ": "trending-this-week",
		"Derby — Heritage!!":    "derby-heritage",
		"ALLCAPS":               "allcaps",
		"---":                   "",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "Make(%q)", in)
	}
}

func TestUniquePrefersPlainSlug(t *testing.T) {
	got, err := slug.Unique("Air Max 90", func(s string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "air-max-90", got)
}

func TestUniqueProbesSuffixes(t *testing.T) {
	taken := map[string]bool{"air-max-90": true, "air-max-90-2": true}
	got, err := slug.Unique("Air Max 90", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "air-max-90-3", got)
}

func TestUniqueEmptyTitleFallsBack(t *testing.T) {
	got, err := slug.Unique("!!!", func(s string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "item", got)
}

func TestUniquePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := slug.Unique("Air Max", func(s string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestUniqueGivesUpEventually(t *testing.T) {
	_, err := slug.Unique("Air Max", func(s string) (bool, error) { return true, nil })
	assert.Error(t, err)
}
