package maps

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoMapFiles is returned when a zone has no readable map layer.
var ErrNoMapFiles = errors.New("no map files found")

var defaultLineColor = color.RGBA{150, 150, 150, 255}

type MapLine struct {
	X1, Y1, Z1 float64
	X2, Y2, Z2 float64
	Color      color.RGBA
}

type MapLabel struct {
	X, Y, Z float64
	Color   color.RGBA
	Size    int
	Text    string
}

type ZoneMap struct {
	Name       string
	Lines      []MapLine
	Labels     []MapLabel
	MinX, MaxX float64
	MinY, MaxY float64
}

func newZoneMap(name string) *ZoneMap {
	return &ZoneMap{
		Name: name,
		MinX: 99999, MaxX: -99999,
		MinY: 99999, MaxY: -99999,
	}
}

// Center is the middle of the map's line bounds.
func (zm *ZoneMap) Center() (float64, float64) {
	if len(zm.Lines) == 0 {
		return 0, 0
	}
	return (zm.MinX + zm.MaxX) / 2, (zm.MinY + zm.MaxY) / 2
}

// LoadZone reads the base layer of a zone and its _1 to _3 overlays from
// mapDir. File names match case-insensitively.
func LoadZone(mapDir, zoneName string) (*ZoneMap, error) {
	entries, err := os.ReadDir(mapDir)
	if err != nil {
		return nil, fmt.Errorf("list map directory: %w", err)
	}

	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files[strings.ToLower(e.Name())] = filepath.Join(mapDir, e.Name())
	}

	zm := newZoneMap(zoneName)
	found := false
	for _, suffix := range []string{"", "_1", "_2", "_3"} {
		path, ok := files[strings.ToLower(zoneName+suffix+".txt")]
		if !ok {
			continue
		}
		n, err := zm.parseFile(path)
		if err != nil {
			slog.Warn("skipping map layer", "file", filepath.Base(path), "error", err)
			continue
		}
		slog.Debug("parsed map layer", "file", filepath.Base(path), "items", n)
		if n > 0 {
			found = true
		}
	}

	if !found {
		return nil, fmt.Errorf("zone %q in %s: %w", zoneName, mapDir, ErrNoMapFiles)
	}
	return zm, nil
}

func (zm *ZoneMap) parseFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return zm.parse(f)
}

// parse reads "L" line and "P" label records. Anything before the record
// letter is junk some map packs carry and is skipped.
func (zm *ZoneMap) parse(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0

	for scanner.Scan() {
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), "\ufeff", ""))
		if line == "" {
			continue
		}

		cmd, rest, ok := splitRecord(line)
		if !ok {
			continue
		}
		parts := strings.Split(rest, ",")

		switch cmd {
		case 'L':
			// y, x, z, y, x, z, r, g, b with the S/N axis first
			if len(parts) < 6 {
				continue
			}
			l := MapLine{
				X1: parseFloat(parts[0]), Y1: parseFloat(parts[1]), Z1: parseFloat(parts[2]),
				X2: parseFloat(parts[3]), Y2: parseFloat(parts[4]), Z2: parseFloat(parts[5]),
				Color: defaultLineColor,
			}
			if len(parts) >= 9 {
				l.Color = parseColor(parts[6], parts[7], parts[8])
			}
			zm.Lines = append(zm.Lines, l)
			zm.updateBounds(l.X1, l.Y1)
			zm.updateBounds(l.X2, l.Y2)
			count++
		case 'P':
			// y, x, z, r, g, b, size, text
			if len(parts) < 7 {
				continue
			}
			p := MapLabel{
				X: parseFloat(parts[0]), Y: parseFloat(parts[1]), Z: parseFloat(parts[2]),
				Color: parseColor(parts[3], parts[4], parts[5]),
				Size:  parseInt(parts[6]),
			}
			if len(parts) >= 8 {
				p.Text = strings.ReplaceAll(strings.TrimSpace(strings.Join(parts[7:], ",")), "_", " ")
			}
			zm.Labels = append(zm.Labels, p)
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan map: %w", err)
	}
	return count, nil
}

func splitRecord(line string) (rune, string, bool) {
	for i, r := range line {
		switch unicode.ToUpper(r) {
		case 'L', 'P':
			return unicode.ToUpper(r), strings.TrimLeft(line[i+1:], " ,"), true
		}
	}
	return 0, "", false
}

func (zm *ZoneMap) updateBounds(x, y float64) {
	zm.MinX, zm.MaxX = min(zm.MinX, x), max(zm.MaxX, x)
	zm.MinY, zm.MaxY = min(zm.MinY, y), max(zm.MaxY, y)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	i, _ := strconv.Atoi(strings.TrimSpace(s))
	return i
}

func parseColor(r, g, b string) color.RGBA {
	ri, gi, bi := parseInt(r), parseInt(g), parseInt(b)
	if ri == 0 && gi == 0 && bi == 0 {
		return color.RGBA{130, 130, 130, 255}
	}
	return color.RGBA{uint8(ri), uint8(gi), uint8(bi), 255}
}
