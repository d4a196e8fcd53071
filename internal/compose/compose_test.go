package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleCompose = `
services:
  sonarr:
    image: lscr.io/linuxserver/sonarr
    volumes:
      - ${MEDIA_ROOT}/TV:/tv
      - ./config/sonarr:/config
  radarr:
    image: lscr.io/linuxserver/radarr
    volumes:
      - ${MEDIA_ROOT}/Movies:/movies
  postgres:
    image: postgres:16
    volumes:
      - dbdata:/var/lib/postgresql/data
`

func writeCompose(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	composePath := filepath.Join(dir, "docker-compose.yml")
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(composePath, []byte(sampleCompose), 0o644); err != nil {
		t.Fatalf("write compose: %v", err)
	}
	if err := os.WriteFile(envPath, []byte("# env\nMEDIA_ROOT=/media\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return composePath, envPath
}

func TestLoadMappings(t *testing.T) {
	composePath, _ := writeCompose(t)

	mappings, err := LoadMappings(composePath, "")
	assert.NoError(t, err)
	// The postgres service is ignored; sonarr contributes two bindings.
	assert.Len(t, mappings, 3)

	byContainer := make(map[string]Mapping)
	for _, m := range mappings {
		byContainer[m.ContainerPath] = m
	}
	assert.Equal(t, "/media/TV", byContainer["/tv"].HostPath, "env var expanded from sibling .env")
	assert.Equal(t, "/media/Movies", byContainer["/movies"].HostPath)
	assert.Equal(t, "./config/sonarr", byContainer["/config"].HostPath)
}

func TestTranslatePath(t *testing.T) {
	mappings := []Mapping{
		{Service: "sonarr", HostPath: "/media/TV", ContainerPath: "/tv"},
		{Service: "radarr", HostPath: "/media/Movies", ContainerPath: "/movies"},
		{Service: "plex", HostPath: "/media", ContainerPath: "/data"},
		{Service: "plex", HostPath: "/media/Movies", ContainerPath: "/data/movies"},
	}

	assert.Equal(t, "/media/TV/Some Show", TranslatePath("/tv/Some Show", mappings))
	assert.Equal(t, "/media/Movies", TranslatePath("/movies", mappings))
	assert.Equal(t, "/media/Movies/Foo", TranslatePath("/data/movies/Foo", mappings),
		"longest container prefix wins")
	assert.Equal(t, "/elsewhere/Foo", TranslatePath("/elsewhere/Foo", mappings),
		"unmapped paths pass through")
	assert.Equal(t, "/tvx/Foo", TranslatePath("/tvx/Foo", mappings),
		"prefix match respects path boundaries")
}

func TestMediaRoots(t *testing.T) {
	dir := t.TempDir()
	tv := filepath.Join(dir, "media", "TV")
	if err := os.MkdirAll(tv, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	mappings := []Mapping{
		{Service: "sonarr", HostPath: tv, ContainerPath: "/tv"},
		{Service: "sonarr", HostPath: filepath.Join(dir, "media", "TV"), ContainerPath: "/tv2"},
		{Service: "sonarr", HostPath: filepath.Join(dir, "absent", "Movies"), ContainerPath: "/movies"},
		{Service: "sonarr", HostPath: filepath.Join(dir, "config"), ContainerPath: "/config"},
	}

	roots := MediaRoots(mappings)
	assert.Equal(t, []string{tv}, roots, "existing media-looking dirs only, deduplicated")
}
