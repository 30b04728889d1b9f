package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colour scheme of rendered frames
type Theme struct {
	Name       string
	Background lipgloss.Color
	Axes       lipgloss.Color
	Grid       lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Box        lipgloss.Color
	Curves     []lipgloss.Color
}

// Available themes
var (
	ThemeLight = Theme{
		Name:       "light",
		Background: lipgloss.Color("#ffffff"),
		Axes:       lipgloss.Color("#000000"),
		Grid:       lipgloss.Color("#d0d0d0"),
		Text:       lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#555555"),
		Box:        lipgloss.Color("#f4f4f4"),
		Curves: []lipgloss.Color{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
		},
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Background: lipgloss.Color("#0a0a0a"),
		Axes:       lipgloss.Color("#ffffff"),
		Grid:       lipgloss.Color("#333333"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Box:        lipgloss.Color("#1a001a"),
		Curves: []lipgloss.Color{
			"#ff00ff", // Magenta
			"#00ffff", // Cyan
			"#ffff00", // Yellow
			"#00ff00",
			"#ff8800",
		},
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Background: lipgloss.Color("#001100"),
		Axes:       lipgloss.Color("#00ff00"), // Green phosphor
		Grid:       lipgloss.Color("#003300"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Box:        lipgloss.Color("#002200"),
		Curves:     []lipgloss.Color{"#88ff88", "#ffff00", "#00cc00", "#ff0000"},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: lipgloss.Color("#001a33"),
		Axes:       lipgloss.Color("#e0f0ff"),
		Grid:       lipgloss.Color("#0d3355"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Box:        lipgloss.Color("#002244"),
		Curves:     []lipgloss.Color{"#ffd700", "#00a8cc", "#00ff88", "#ff4444"},
	}

	// Default theme
	CurrentTheme = ThemeLight

	// All available themes
	Themes = []Theme{
		ThemeLight,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return ThemeLight, false
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// CurveColors returns n distinct curve colours, extending the theme's list
// with evenly spaced hues when it runs short.
func (t Theme) CurveColors(n int) []color.RGBA {
	out := make([]color.RGBA, 0, n)
	for i := 0; i < n && i < len(t.Curves); i++ {
		out = append(out, rgba(t.Curves[i]))
	}
	extra := n - len(out)
	for k := 0; k < extra; k++ {
		h := 360 * float64(k) / float64(extra)
		out = append(out, toRGBA(colorful.Hcl(h, 0.7, 0.6).Clamped()))
	}
	return out
}

func rgba(c lipgloss.Color) color.RGBA {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return toRGBA(col)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
