package arr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testResolver() *Resolver {
	series := []Record{
		{Title: "Some Show", Path: "/tv/Some Show"},
	}
	movies := []Record{
		{Title: "Foo", Path: "/movies/Foo (2020)"},
		{Title: "Long Epic", Path: "/movies/Long Epic Extended (2011)"},
	}
	translate := func(p string) string {
		// Managers run in containers; /tv and /movies live under /media.
		switch {
		case p == "/tv/Some Show":
			return "/media/TV/Some Show"
		case p == "/movies/Foo (2020)":
			return "/media/Movies/Foo (2020)"
		case p == "/movies/Long Epic Extended (2011)":
			return "/media/Movies/Long Epic Extended (2011)"
		}
		return p
	}
	return NewResolver(series, movies, translate)
}

func TestResolveDirectFolderName(t *testing.T) {
	r := testResolver()

	m := r.Resolve("Foo (2020)", nil)
	assert.NotNil(t, m)
	assert.Equal(t, KindMovie, m.Kind)
	assert.Equal(t, "/media/Movies/Foo (2020)", m.Path)
	assert.Equal(t, "direct", m.MatchType)

	// Folder-name matching is case insensitive.
	m = r.Resolve("some show", nil)
	assert.NotNil(t, m)
	assert.Equal(t, KindSeries, m.Kind)
}

func TestResolvePathComparison(t *testing.T) {
	r := testResolver()

	m := r.Resolve("unrelated label", []string{"/mnt/disk2/TV/Some Show"})
	assert.NotNil(t, m)
	assert.Equal(t, "path_comparison", m.MatchType)
	assert.Equal(t, "/media/TV/Some Show", m.Path)
}

func TestResolveSubdirectoryRelation(t *testing.T) {
	r := testResolver()

	m := r.Resolve("zzz", []string{"/media/Movies/Foo (2020)/Extras... no"})
	// Basename differs and is not contained, so the subdir rule is gated
	// off by the containment precondition.
	assert.Nil(t, m)

	m = r.Resolve("zzz", []string{"/media/Movies/Foo (2020)"})
	assert.NotNil(t, m)
	assert.Equal(t, "path_comparison", m.MatchType)
}

func TestResolveFuzzyName(t *testing.T) {
	r := testResolver()

	m := r.Resolve("Long Epic", nil)
	assert.NotNil(t, m)
	assert.Equal(t, "fuzzy_name", m.MatchType)
	assert.Equal(t, KindMovie, m.Kind)
}

func TestResolveNoMatch(t *testing.T) {
	r := testResolver()
	assert.Nil(t, r.Resolve("Completely Different", []string{"/data/else/Completely Different"}))
}

func TestRelatedMediaPaths(t *testing.T) {
	assert.True(t, relatedMediaPaths("/media/Movies/Foo (2020)", "/mnt/Movies/Foo (2020)", ""),
		"same basename")
	assert.True(t, relatedMediaPaths("/media/Movies/Foo (2020)", "/mnt/x/Foo", "Foo"),
		"folder label matches one side")
	assert.True(t, relatedMediaPaths("/media/Movies/Foo (2020)", "/mnt/x/Foo (2019)", ""),
		"year-stripped names match")
	assert.False(t, relatedMediaPaths("/media/Movies/Foo (2020)", "/mnt/x/Barbaz", ""))
}
