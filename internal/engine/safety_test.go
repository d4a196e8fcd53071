package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/mediadup/internal/model"
)

func TestIsProtected(t *testing.T) {
	rules := []model.ProtectionRule{
		{Root: "/media"},
		{Root: "/srv/library"},
	}

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"rule root with media base name", "/media/Movies", true},
		{"descendant with media base name", "/media/disk1/TV", true},
		{"descendant without media base name", "/media/Movies/Foo (2020)", false},
		{"media base name outside any rule root", "/backup/Movies", false},
		{"case insensitive base token", "/srv/library/TELEVISION", true},
		{"os critical root", "/etc", true},
		{"filesystem root", "/", true},
		{"sibling prefix is not a descendant", "/mediastore/Movies", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsProtected(tc.path, rules))
		})
	}
}

func TestIsProtectedNoRules(t *testing.T) {
	assert.False(t, IsProtected("/media/Movies", nil))
	assert.True(t, IsProtected("/home", nil))
}

func TestClassifyMediaType(t *testing.T) {
	cases := []struct {
		path string
		want MediaType
	}{
		{"/media/Movies/Foo (2020)", MediaMovie},
		{"/media/Films/Bar", MediaMovie},
		{"/media/TV/Some Show", MediaTV},
		{"/media/Television/Some Show", MediaTV},
		{"/srv/series-archive/Show", MediaTV},
		{"/data/stuff/Foo", MediaUnknown},
		{"/movies-4k/Foo/Extras", MediaMovie}, // segment fallback
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyMediaType(tc.path), tc.path)
	}
}

func TestMediaTypesMatch(t *testing.T) {
	movie := "/media/Movies/Foo (2020)"
	tv := "/media/TV/Foo"
	unknown := "/data/stuff/Foo"

	match, _, _ := MediaTypesMatch(movie, tv, false)
	assert.False(t, match, "different known types never match")

	match, _, _ = MediaTypesMatch(movie, movie, false)
	assert.True(t, match)

	// Permissive bias: an unclassifiable side counts as a match.
	match, _, _ = MediaTypesMatch(movie, unknown, false)
	assert.True(t, match)

	// Strict mode tightens exactly that case.
	match, _, _ = MediaTypesMatch(movie, unknown, true)
	assert.False(t, match)

	match, _, _ = MediaTypesMatch(movie, tv, true)
	assert.False(t, match)
}
