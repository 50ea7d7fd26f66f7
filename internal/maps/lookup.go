package maps

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Lookup translates long zone names ("North Qeynos") to map file short
// names ("qeynos2").
type Lookup struct {
	names map[string]string
}

// LoadLookup reads a JSON object of long name to short name. Keys match
// case-insensitively.
func LoadLookup(path string) (*Lookup, error) {
	// zone names contain dots, so keep viper from nesting on them
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read zone lookup %s: %w", path, err)
	}

	l := &Lookup{names: make(map[string]string)}
	for k, val := range v.AllSettings() {
		short, ok := val.(string)
		if !ok {
			continue
		}
		l.names[strings.ToLower(k)] = short
	}
	return l, nil
}

// Resolve returns the short name for zone, or zone itself when it is not
// listed.
func (l *Lookup) Resolve(zone string) string {
	if l != nil {
		if short, ok := l.names[strings.ToLower(zone)]; ok {
			return short
		}
	}
	return zone
}

func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Covers reports whether a map file name belongs to a listed zone, either
// as its base layer ("oot.txt") or an overlay ("oot_2.txt").
func (l *Lookup) Covers(filename string) bool {
	if l == nil {
		return false
	}
	base := strings.TrimSuffix(strings.ToLower(filename), ".txt")
	for _, short := range l.names {
		short = strings.ToLower(short)
		if base == short || strings.HasPrefix(base, short+"_") {
			return true
		}
	}
	return false
}
