package tips

import (
	"math"
	"sort"
	"strings"
	"time"
)

type Tip struct {
	ID           int64                  `json:"id"`
	Text         *string                `json:"text"`
	Place        *string                `json:"place"`
	EventTime    *time.Time             `json:"event_time"`
	Category     *string                `json:"category"`
	ThreatLevel  *string                `json:"threat_level"`
	ThreatReason *string                `json:"threat_reason"`
	Summary      *string                `json:"summary"`
	CreatedAt    time.Time              `json:"created_at"`
	Latitude     *float64               `json:"latitude"`
	Longitude    *float64               `json:"longitude"`
	Contact      *string                `json:"contact"`
	ImageURL     *string                `json:"image_url"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// HasCoordinates reports whether the tip can be placed on the map.
func (t Tip) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil && finite(*t.Latitude) && finite(*t.Longitude)
}

// SetCoordinates attaches resolved coordinates to the tip.
func (t *Tip) SetCoordinates(lat, lon float64) {
	t.Latitude = &lat
	t.Longitude = &lon
}

// Str dereferences an optional string field.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type Query struct {
	Search     string
	Categories []string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

type ListResponse struct {
	Items []Tip `json:"items"`
	Total int   `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type Category struct {
	Name string `json:"name"`
}

type HealthResponse struct {
	OK    bool   `json:"ok"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UniqueCategories trims, drops empty values, de-duplicates and sorts.
func UniqueCategories(raw []string) []Category {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Category, 0, len(names))
	for _, n := range names {
		out = append(out, Category{Name: n})
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
