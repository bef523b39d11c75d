package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StorageLayout is the ordered list of playlist locations the resolver
// probes. The first entry doubles as the default write location for
// users with no stored data.
type StorageLayout struct {
	Locations []LayoutLocation `yaml:"locations"`
}

// LayoutLocation describes one location. Path applies to the
// file-backed types and is ignored for "remote".
type LayoutLocation struct {
	Type string `yaml:"type"` // "mapping" | "registry" | "remote"
	Path string `yaml:"path"`
}

var layoutTypes = map[string]bool{
	"mapping":  true,
	"registry": true,
	"remote":   true,
}

// Layout returns the storage layout: the YAML file when configured,
// otherwise the default order mapping -> registry -> remote (remote
// only when Redis is enabled).
func (c *Config) Layout() (StorageLayout, error) {
	if c.StorageLayoutFile == "" {
		layout := StorageLayout{Locations: []LayoutLocation{
			{Type: "mapping", Path: c.PlaylistsFile},
			{Type: "registry", Path: c.UsersFile},
		}}
		if c.RedisEnabled() {
			layout.Locations = append(layout.Locations, LayoutLocation{Type: "remote"})
		}
		return layout, nil
	}

	data, err := os.ReadFile(c.StorageLayoutFile)
	if err != nil {
		return StorageLayout{}, fmt.Errorf("reading storage layout: %w", err)
	}

	var layout StorageLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return StorageLayout{}, fmt.Errorf("parsing storage layout: %w", err)
	}
	if len(layout.Locations) == 0 {
		return StorageLayout{}, fmt.Errorf("storage layout %s declares no locations", c.StorageLayoutFile)
	}

	for i, loc := range layout.Locations {
		if !layoutTypes[loc.Type] {
			return StorageLayout{}, fmt.Errorf("storage layout location %d: unknown type %q", i, loc.Type)
		}
		if loc.Type != "remote" && loc.Path == "" {
			return StorageLayout{}, fmt.Errorf("storage layout location %d: type %q needs a path", i, loc.Type)
		}
		if loc.Type == "remote" && !c.RedisEnabled() {
			return StorageLayout{}, fmt.Errorf("storage layout declares a remote location but MEDLEY_REDIS_ADDR is not set")
		}
	}
	return layout, nil
}
