package config

import "fmt"

const (
	StyleClassic = "classic"
	StylePlain   = "plain"
)

// Style holds the cosmetic knobs of the page. Layout and data are the same for every preset.
type Style struct {
	Name               string
	ExternalStylesheet string
	Background         string
	Text               string
	// ColorScale is the continuous scale for choropleths, low to high.
	ColorScale []string
	BarColor   string
	MapWidth   string
	MapHeight  string
	BarWidth   string
	BarHeight  string
	FontSize   int
}

// reds mirrors the "Reds" sequential scale.
var reds = []string{"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"}

var styles = map[string]Style{
	StyleClassic: {
		Name:               StyleClassic,
		ExternalStylesheet: "https://codepen.io/chriddyp/pen/bWLwgP.css",
		Background:         "#ffd8ab",
		Text:               "#000000",
		ColorScale:         reds,
		BarColor:           "red",
		MapWidth:           "100%",
		MapHeight:          "450px",
		BarWidth:           "100%",
		BarHeight:          "400px",
		FontSize:           15,
	},
	StylePlain: {
		Name:               StylePlain,
		ExternalStylesheet: "https://codepen.io/chriddyp/pen/bWLwgP.css",
		Background:         "#ffffff",
		Text:               "#222222",
		ColorScale:         reds,
		BarColor:           "#cb181d",
		MapWidth:           "100%",
		MapHeight:          "400px",
		BarWidth:           "80%",
		BarHeight:          "350px",
		FontSize:           13,
	},
}

func StyleByName(name string) (Style, error) {
	s, ok := styles[name]
	if !ok {
		return Style{}, fmt.Errorf("unknown dashboard style %q", name)
	}

	s.ColorScale = append([]string(nil), s.ColorScale...)
	return s, nil
}
