package threat

import (
	"regexp"
	"strings"
)

type Level string

const (
	Critical Level = "critical"
	High     Level = "high"
	Medium   Level = "medium"
	Low      Level = "low"
	Info     Level = "info"
)

// All lists the levels from most to least severe.
var All = []Level{Critical, High, Medium, Low, Info}

var (
	hotbildSuffix = regexp.MustCompile(`\s*hotbild\s*$`)

	aliases = map[string]Level{
		"kritisk":  Critical,
		"critical": Critical,
		"hög":      High,
		"hog":      High,
		"high":     High,
		"medel":    Medium,
		"medium":   Medium,
		"låg":      Low,
		"lag":      Low,
		"low":      Low,
		"info":     Info,
	}

	labels = map[Level]string{
		Critical: "Kritisk",
		High:     "Hög",
		Medium:   "Medel",
		Low:      "Låg",
		Info:     "Info",
	}
)

// Normalize maps a free-text threat label to its canonical level.
// Unknown and empty labels fall back to Medium.
func Normalize(label string) Level {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.TrimSpace(hotbildSuffix.ReplaceAllString(l, ""))
	if level, ok := aliases[l]; ok {
		return level
	}
	return Medium
}

// NormalizePtr normalizes an optional label.
func NormalizePtr(label *string) Level {
	if label == nil {
		return Medium
	}
	return Normalize(*label)
}

// Label is the Swedish display label.
func (l Level) Label() string {
	return labels[Normalize(string(l))]
}

// CSSClass is the marker and list dot class for the level.
func (l Level) CSSClass() string {
	return "pulse-" + string(Normalize(string(l)))
}
