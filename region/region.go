package region

import (
	"math"
	"strings"
)

type Region string

const (
	Gotland Region = "gotland"
	North   Region = "north"
	West    Region = "west"
	Central Region = "central"
	South   Region = "south"
	Unknown Region = "unknown"
)

var names = map[Region]string{
	Gotland: "Gotland",
	North:   "Norra",
	West:    "Västra",
	Central: "Mellersta",
	South:   "Södra",
	Unknown: "Okänd",
}

// All lists the regions in the order they are offered as filters.
var All = []Region{Gotland, North, West, Central, South, Unknown}

// Name is the display name shown in the dashboard.
func (r Region) Name() string {
	if n, ok := names[r]; ok {
		return n
	}
	return names[Unknown]
}

type rule struct {
	match  func(lat, lon float64) bool
	region Region
}

// Rules are evaluated top to bottom and the first match wins. The boxes
// overlap on purpose: Gotland is checked before South.
var rules = []rule{
	{func(lat, lon float64) bool { return lat >= 56.9 && lat <= 58.0 && lon >= 18.0 && lon <= 19.5 }, Gotland},
	{func(lat, lon float64) bool { return lat >= 60.5 }, North},
	{func(lat, lon float64) bool { return lon < 12.5 && lat < 60.5 && lat >= 55.3 }, West},
	{func(lat, lon float64) bool { return lat >= 58.5 && lat < 60.5 && lon >= 12.5 }, Central},
	{func(lat, lon float64) bool { return lat < 58.5 || (lat < 60.5 && lat >= 55.3 && lon >= 12.5) }, South},
}

// Classify maps a coordinate pair to a region.
func Classify(lat, lon float64) Region {
	if !finite(lat) || !finite(lon) {
		return Unknown
	}
	for _, r := range rules {
		if r.match(lat, lon) {
			return r.region
		}
	}
	return Unknown
}

// ClassifyPtr classifies optional coordinates; missing values are Unknown.
func ClassifyPtr(lat, lon *float64) Region {
	if lat == nil || lon == nil {
		return Unknown
	}
	return Classify(*lat, *lon)
}

// Parse accepts either the identifier or the display name of a region.
func Parse(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, r := range All {
		if strings.EqualFold(s, string(r)) || strings.EqualFold(s, r.Name()) {
			return r, true
		}
	}
	return "", false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
