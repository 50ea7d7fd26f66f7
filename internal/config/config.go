package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	rootDir        = "nox-maps"
	configFileName = "config.toml"
	envPrefix      = "NOX_MAPS"

	MapDirKey    = "map_dir"
	EQDirKey     = "eq_dir"
	ZoneKey      = "zone"
	MenuWidthKey = "contextmenu.width"
	AnchorXKey   = "contextmenu.anchor_x"
	AnchorYKey   = "contextmenu.anchor_y"
	MenuItemsKey = "contextmenu.items"
	MarkersKey   = "markers"
)

// Separator is the menu entry name that stands for a divider line.
const Separator = "-"

// DefaultMenuItems is the map menu when the file names none.
var DefaultMenuItems = []string{"zoom_in", "zoom_out", Separator, "center", "copy_coordinates", Separator, "add_marker"}

type Marker struct {
	ID    string  `mapstructure:"id"`
	X     float64 `mapstructure:"x"`
	Y     float64 `mapstructure:"y"`
	Label string  `mapstructure:"label"`
	Color string  `mapstructure:"color"` // "red", "blue", "green", "yellow", "purple"
	Shape string  `mapstructure:"shape"` // "circle", "square", "triangle", "diamond", "star"

	// Menu options. Nil ContextMenu and InheritItems mean true, and no
	// items means the standard marker entries.
	ContextMenu  *bool    `mapstructure:"contextmenu"`
	MenuItems    []string `mapstructure:"contextmenu_items"`
	InheritItems *bool    `mapstructure:"contextmenu_inherit_items"`
}

// MenuEnabled reports whether the marker gets its own menu entries.
func (m Marker) MenuEnabled() bool {
	return m.ContextMenu == nil || *m.ContextMenu
}

type Menu struct {
	Width   float64  `mapstructure:"width"`
	AnchorX float64  `mapstructure:"anchor_x"`
	AnchorY float64  `mapstructure:"anchor_y"`
	Items   []string `mapstructure:"items"`
}

type Config struct {
	MapDir  string              `mapstructure:"map_dir"`
	EQDir   string              `mapstructure:"eq_dir"` // game directory holding eqlog files
	Zone    string              `mapstructure:"zone"`
	Menu    Menu                `mapstructure:"contextmenu"`
	Markers map[string][]Marker `mapstructure:"markers"` // zone short name -> markers
}

// Store reads and writes the config file. Environment variables prefixed
// with NOX_MAPS_ override file values.
type Store struct {
	v    *viper.Viper
	path string
}

// DefaultPath is ~/.config/nox-maps/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, rootDir, configFileName), nil
}

// Open reads the file at path, or DefaultPath when path is empty. A file
// that does not exist yet is created with defaults.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	s := &Store{v: v, path: path}

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(MapDirKey, filepath.Join("assets", "maps"))
	v.SetDefault(EQDirKey, "")
	v.SetDefault(ZoneKey, "")
	v.SetDefault(MenuWidthKey, 160.0)
	v.SetDefault(AnchorXKey, 0.0)
	v.SetDefault(AnchorYKey, 0.0)
	v.SetDefault(MenuItemsKey, DefaultMenuItems)
	v.SetDefault(MarkersKey, map[string]any{})
}

// Viper exposes the underlying instance so flags can be bound to keys.
func (s *Store) Viper() *viper.Viper {
	return s.v
}

func (s *Store) Path() string {
	return s.path
}

// Load decodes the current settings.
func (s *Store) Load() (*Config, error) {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Markers == nil {
		cfg.Markers = make(map[string][]Marker)
	}
	if len(cfg.Menu.Items) == 0 {
		cfg.Menu.Items = append([]string(nil), DefaultMenuItems...)
	}
	return &cfg, nil
}

// Set changes one key without writing the file.
func (s *Store) Set(key string, value any) {
	s.v.Set(key, value)
}

// Save stores cfg and writes the file.
func (s *Store) Save(cfg *Config) error {
	s.v.Set(MapDirKey, cfg.MapDir)
	s.v.Set(EQDirKey, cfg.EQDir)
	s.v.Set(ZoneKey, cfg.Zone)
	s.v.Set(MenuWidthKey, cfg.Menu.Width)
	s.v.Set(AnchorXKey, cfg.Menu.AnchorX)
	s.v.Set(AnchorYKey, cfg.Menu.AnchorY)
	s.v.Set(MenuItemsKey, cfg.Menu.Items)
	s.v.Set(MarkersKey, markerTables(cfg.Markers))
	return s.Write()
}

// Write flushes the current settings to the file.
func (s *Store) Write() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

// markerTables turns markers into plain maps so the TOML encoder uses the
// same keys the decoder reads.
func markerTables(markers map[string][]Marker) map[string]any {
	out := make(map[string]any, len(markers))
	for zone, list := range markers {
		rows := make([]map[string]any, 0, len(list))
		for _, m := range list {
			row := map[string]any{
				"id":    m.ID,
				"x":     m.X,
				"y":     m.Y,
				"label": m.Label,
				"color": m.Color,
				"shape": m.Shape,
			}
			if m.ContextMenu != nil {
				row["contextmenu"] = *m.ContextMenu
			}
			if len(m.MenuItems) > 0 {
				row["contextmenu_items"] = m.MenuItems
			}
			if m.InheritItems != nil {
				row["contextmenu_inherit_items"] = *m.InheritItems
			}
			rows = append(rows, row)
		}
		out[strings.ToLower(zone)] = rows
	}
	return out
}

// AddMarker appends a marker to a zone.
func (c *Config) AddMarker(zone string, m Marker) {
	zone = strings.ToLower(zone)
	c.Markers[zone] = append(c.Markers[zone], m)
}

// RemoveMarker drops the marker with id from a zone. It reports whether
// one was found.
func (c *Config) RemoveMarker(zone, id string) bool {
	zone = strings.ToLower(zone)
	list := c.Markers[zone]
	for i, m := range list {
		if m.ID == id {
			c.Markers[zone] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// ZoneMarkers returns a zone's markers.
func (c *Config) ZoneMarkers(zone string) []Marker {
	return c.Markers[strings.ToLower(zone)]
}
