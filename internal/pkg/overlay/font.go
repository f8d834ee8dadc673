package overlay

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// System font candidates with Hebrew glyph coverage, checked in order.
type fontCandidate struct {
	path string
	bold bool
}

var systemFonts = []fontCandidate{
	// Linux
	{"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf", false},
	{"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf", true},
	{"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf", false},
	{"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf", true},
	{"/usr/share/fonts/truetype/noto/NotoSansHebrew-Regular.ttf", false},
	{"/usr/share/fonts/truetype/noto/NotoSansHebrew-Bold.ttf", true},
	// macOS
	{"/System/Library/Fonts/Supplemental/Arial.ttf", false},
	{"/System/Library/Fonts/Supplemental/Arial Bold.ttf", true},
	{"/Library/Fonts/Arial.ttf", false},
	// Windows
	{"C:\\Windows\\Fonts\\arial.ttf", false},
	{"C:\\Windows\\Fonts\\arialbd.ttf", true},
	{"C:\\Windows\\Fonts\\tahoma.ttf", false},
	{"C:\\Windows\\Fonts\\tahomabd.ttf", true},
}

var (
	fontCacheMu sync.Mutex
	fontCache   = map[string]*truetype.Font{}
)

func parseFontFile(path string) (*truetype.Font, error) {
	fontCacheMu.Lock()
	defer fontCacheMu.Unlock()

	if f, ok := fontCache[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, err
	}
	fontCache[path] = f
	return f, nil
}

// resolveFace picks the best available face for the requested family, size
// and weight. Font availability is soft: when nothing matches, the fixed
// basicfont face is used so text always renders, even if Hebrew glyphs come
// out as placeholder boxes on bare systems.
func resolveFace(fontDir, family string, size float64, bold bool) font.Face {
	candidates := make([]fontCandidate, 0, len(systemFonts)+8)
	if fontDir != "" {
		candidates = append(candidates, dirCandidates(fontDir)...)
	}
	candidates = append(candidates, systemFonts...)

	// Relax the filters pass by pass: exact family and weight first, then
	// matching family alone, then matching weight alone, then anything.
	passes := []struct{ byFamily, byWeight bool }{
		{true, true}, {true, false}, {false, true}, {false, false},
	}
	for _, p := range passes {
		for _, cand := range candidates {
			if p.byWeight && cand.bold != bold {
				continue
			}
			if p.byFamily && family != "" && !matchesFamily(cand.path, family) {
				continue
			}
			f, err := parseFontFile(cand.path)
			if err != nil {
				continue
			}
			return truetype.NewFace(f, &truetype.Options{
				Size:    size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
		}
	}

	logrus.Warn("no usable TTF font found, falling back to basic face (Hebrew support limited)")
	return basicfont.Face7x13
}

func dirCandidates(dir string) []fontCandidate {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []fontCandidate
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".ttf") {
			continue
		}
		bold := strings.Contains(name, "bold") || strings.Contains(name, "bd")
		out = append(out, fontCandidate{path: filepath.Join(dir, e.Name()), bold: bold})
	}
	return out
}

func matchesFamily(path, family string) bool {
	base := strings.ToLower(filepath.Base(path))
	family = strings.ToLower(strings.ReplaceAll(family, " ", ""))
	return strings.Contains(strings.ReplaceAll(base, " ", ""), family)
}
