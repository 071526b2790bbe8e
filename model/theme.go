package model

type ThemeGradient string

const (
	GradientNone   ThemeGradient = "none"
	GradientSunset ThemeGradient = "sunset"
	GradientOcean  ThemeGradient = "ocean"
	GradientForest ThemeGradient = "forest"
	GradientCandy  ThemeGradient = "candy"
)

type ThemePattern string

const (
	PatternNone  ThemePattern = "none"
	PatternDots  ThemePattern = "dots"
	PatternLines ThemePattern = "lines"
	PatternGrid  ThemePattern = "grid"
	PatternWaves ThemePattern = "waves"
)

// ProfileTheme is the profile customization struct stored on the user record.
type ProfileTheme struct {
	Gradient        ThemeGradient `json:"gradient"`
	Pattern         ThemePattern  `json:"pattern"`
	BackgroundImage string        `json:"backgroundImage,omitempty"`
	ShowStats       bool          `json:"showStats"`
	ShowBadges      bool          `json:"showBadges"`
}

func DefaultProfileTheme() *ProfileTheme {
	return &ProfileTheme{
		Gradient:   GradientNone,
		Pattern:    PatternNone,
		ShowStats:  true,
		ShowBadges: true,
	}
}
