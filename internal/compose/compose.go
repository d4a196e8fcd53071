package compose

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping is one host:container volume binding of a media-related service.
type Mapping struct {
	Service       string
	HostPath      string
	ContainerPath string
}

// mediaServices are the compose services whose volumes are worth mining for
// media roots and path translations.
var mediaServices = map[string]struct{}{
	"sonarr":     {},
	"radarr":     {},
	"jellyfin":   {},
	"plex":       {},
	"emby":       {},
	"bazarr":     {},
	"jellyseerr": {},
	"overseerr":  {},
}

// mediaTerms mark a host path as a plausible media root.
var mediaTerms = []string{"media", "movies", "tv", "television", "films", "videos", "shows"}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Volumes []string `yaml:"volumes"`
}

// FindComposeFile looks for a docker-compose.yml in the common locations.
func FindComposeFile() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	candidates := []string{
		filepath.Join(home, "docker", "docker-compose.yml"),
		filepath.Join(home, "docker-compose.yml"),
		filepath.Join(home, "media-server", "docker-compose.yml"),
		filepath.Join(home, "docker", "media", "docker-compose.yml"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, true
		}
	}
	return "", false
}

// LoadMappings parses the compose file and returns the volume bindings of
// every media service, with ${VAR} placeholders expanded from the dotenv
// file next to the compose file (or envPath when given).
func LoadMappings(composePath, envPath string) ([]Mapping, error) {
	data, err := os.ReadFile(composePath)
	if err != nil {
		return nil, fmt.Errorf("read compose file %s: %w", composePath, err)
	}

	if envPath == "" {
		sibling := filepath.Join(filepath.Dir(composePath), ".env")
		if _, err := os.Stat(sibling); err == nil {
			envPath = sibling
		}
	}
	envVars, err := loadDotenv(envPath)
	if err != nil {
		return nil, err
	}

	var doc composeFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", composePath, err)
	}

	var mappings []Mapping
	for name, svc := range doc.Services {
		if _, ok := mediaServices[strings.ToLower(name)]; !ok {
			continue
		}
		for _, volume := range svc.Volumes {
			parts := strings.Split(volume, ":")
			if len(parts) < 2 {
				continue
			}
			host := expandEnv(parts[0], envVars)
			mappings = append(mappings, Mapping{
				Service:       name,
				HostPath:      host,
				ContainerPath: parts[1],
			})
		}
	}
	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].Service != mappings[j].Service {
			return mappings[i].Service < mappings[j].Service
		}
		return mappings[i].ContainerPath < mappings[j].ContainerPath
	})
	return mappings, nil
}

// TranslatePath converts a container path to its host equivalent using the
// most specific (longest) container prefix. Unmapped paths pass through.
func TranslatePath(containerPath string, mappings []Mapping) string {
	best := -1
	bestLen := -1
	for i, m := range mappings {
		cp := strings.TrimSuffix(m.ContainerPath, "/")
		if cp == "" {
			continue
		}
		if containerPath == cp || strings.HasPrefix(containerPath, cp+"/") {
			if len(cp) > bestLen {
				best = i
				bestLen = len(cp)
			}
		}
	}
	if best < 0 {
		return containerPath
	}
	m := mappings[best]
	rel := strings.TrimPrefix(containerPath, strings.TrimSuffix(m.ContainerPath, "/"))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return m.HostPath
	}
	return filepath.Join(m.HostPath, rel)
}

// MediaRoots returns the host paths that exist, are directories and look
// like media folders.
func MediaRoots(mappings []Mapping) []string {
	seen := make(map[string]struct{})
	var roots []string
	for _, m := range mappings {
		lower := strings.ToLower(m.HostPath)
		matched := false
		for _, term := range mediaTerms {
			if strings.Contains(lower, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := os.Stat(m.HostPath)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, dup := seen[m.HostPath]; dup {
			continue
		}
		seen[m.HostPath] = struct{}{}
		roots = append(roots, m.HostPath)
	}
	sort.Strings(roots)
	return roots
}

func loadDotenv(path string) (map[string]string, error) {
	vars := make(map[string]string)
	if path == "" {
		return vars, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

func expandEnv(value string, vars map[string]string) string {
	for name, v := range vars {
		value = strings.ReplaceAll(value, "${"+name+"}", v)
	}
	return value
}
