package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/mediadup/internal/model"
)

const sampleReport = `=== Updated Media Duplicates Report ===

Folder: Foo (2020)
Official Path (movie): /media/Movies/Foo (2020)
Title: Foo
Match Type: path_comparison

Duplicate Paths:
  /mnt/disk2/Movies/Foo.2020.1080p
  /media/Movies/Foo (2020) (OFFICIAL)

==================================================

Folder: Some Show
Official Path: Unknown (not found in Sonarr or Radarr)

Duplicate Paths:
  /media/TV/Some Show
  /mnt/disk2/TV/Some Show

==================================================


Summary:
Total duplicate folders: 2
Found in Sonarr/Radarr: 1
Not found in Sonarr/Radarr: 1
`

func TestParseReport(t *testing.T) {
	groups, err := Parse(strings.NewReader(sampleReport))
	assert.NoError(t, err)
	assert.Len(t, groups, 2)

	foo := groups[0]
	assert.Equal(t, "Foo (2020)", foo.Label)
	assert.Equal(t, "/media/Movies/Foo (2020)", foo.CanonicalPath)
	assert.Equal(t, "movie", foo.CanonicalKind)
	assert.Equal(t, "Foo", foo.Title)
	assert.Equal(t, "path_comparison", foo.MatchType)
	assert.Equal(t, []string{"/mnt/disk2/Movies/Foo.2020.1080p"}, foo.DuplicatePaths,
		"the (OFFICIAL) entry never appears among duplicates")

	show := groups[1]
	assert.False(t, show.CanonicalKnown())
	assert.Equal(t, model.CanonicalUnknown, show.CanonicalPath)
	assert.Len(t, show.DuplicatePaths, 2)
}

func TestParseLegacyServerAnnotation(t *testing.T) {
	in := `Folder: Some Show
Official Path (Sonarr): /media/TV/Some Show

Duplicate Paths:
  /mnt/old/TV/Some Show
`
	groups, err := Parse(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, "series", groups[0].CanonicalKind)
	assert.Equal(t, "/media/TV/Some Show", groups[0].CanonicalPath)
}

func TestParseSkipsLabelLessRecords(t *testing.T) {
	in := `Official Path (movie): /media/Movies/Orphan

Duplicate Paths:
  /mnt/Movies/Orphan
`
	groups, err := Parse(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestWriteParseRoundTrip(t *testing.T) {
	groups := []*model.DuplicateGroup{
		{
			Label:          "Foo (2020)",
			CanonicalPath:  "/media/Movies/Foo (2020)",
			CanonicalKind:  "movie",
			Title:          "Foo",
			MatchType:      "direct",
			DuplicatePaths: []string{"/mnt/Movies/Foo.2020"},
		},
		{
			Label:          "Mystery Show",
			CanonicalPath:  model.CanonicalUnknown,
			DuplicatePaths: []string{"/media/TV/Mystery Show", "/mnt/TV/Mystery Show"},
		},
	}

	out := Render("Updated Media Duplicates Report", groups)
	parsed, err := Parse(strings.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, groups, parsed)
}
