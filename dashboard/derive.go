package dashboard

import (
	"math"

	"github.com/Grupp05-AI/Admin-sida/region"
	"github.com/Grupp05-AI/Admin-sida/threat"
	"github.com/Grupp05-AI/Admin-sida/tips"
)

var (
	DefaultCenter = LatLng{Lat: 62, Lon: 16}
	DefaultZoom   = 4.6
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

type Marker struct {
	ID    int64   `json:"id"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Class string  `json:"class"`
	Popup string  `json:"popup"`
}

// View is the outcome of one derivation pass.
type View struct {
	Items      []tips.Tip
	Expanded   *tips.Tip
	Filtered   int
	Page       int
	TotalPages int
	Markers    []Marker
	// Bounds of the plotted markers, nil when nothing is plotted.
	Bounds *Bounds
}

// Filter applies the region filter and then the threat filter.
func Filter(s State) []tips.Tip {
	out := s.Tips
	if s.Region != "" {
		out = filter(out, func(t tips.Tip) bool {
			return region.ClassifyPtr(t.Latitude, t.Longitude) == s.Region
		})
	}
	if s.Threat != "" {
		out = filter(out, func(t tips.Tip) bool {
			return threat.NormalizePtr(t.ThreatLevel) == s.Threat
		})
	}
	return out
}

func filter(in []tips.Tip, keep func(tips.Tip) bool) []tips.Tip {
	out := make([]tips.Tip, 0, len(in))
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = PageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate filters and paginates the cached tips. Markers cover the whole
// filtered set, the list only the current page.
func Paginate(s State) (State, View) {
	if s.PageSize <= 0 {
		s.PageSize = PageSize
	}
	filtered := Filter(s)
	total := TotalPages(len(filtered), s.PageSize)
	if s.Page > total || s.Page < 1 {
		s.Page = 1
	}

	start := (s.Page - 1) * s.PageSize
	end := start + s.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	v := View{
		Items:      filtered[start:end],
		Filtered:   len(filtered),
		Page:       s.Page,
		TotalPages: total,
	}

	if s.Expanded != nil {
		if t, ok := find(v.Items, *s.Expanded); ok {
			v.Expanded = &t
		} else {
			s.Expanded = nil
		}
	}

	v.Markers, v.Bounds = markers(filtered)
	return s, v
}

func markers(filtered []tips.Tip) ([]Marker, *Bounds) {
	out := make([]Marker, 0, len(filtered))
	var b *Bounds
	for _, t := range filtered {
		if !t.HasCoordinates() {
			continue
		}
		lat, lon := *t.Latitude, *t.Longitude
		out = append(out, Marker{
			ID:    t.ID,
			Lat:   lat,
			Lon:   lon,
			Class: threat.NormalizePtr(t.ThreatLevel).CSSClass(),
			Popup: renderPopup(t),
		})

		if b == nil {
			b = &Bounds{SouthWest: LatLng{lat, lon}, NorthEast: LatLng{lat, lon}}
			continue
		}
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, lat)
		b.SouthWest.Lon = math.Min(b.SouthWest.Lon, lon)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, lat)
		b.NorthEast.Lon = math.Max(b.NorthEast.Lon, lon)
	}
	return out, b
}

// Pad grows the bounds by ratio of their size on every side.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := math.Abs(b.NorthEast.Lat-b.SouthWest.Lat) * ratio
	dLon := math.Abs(b.NorthEast.Lon-b.SouthWest.Lon) * ratio
	return Bounds{
		SouthWest: LatLng{Lat: b.SouthWest.Lat - dLat, Lon: b.SouthWest.Lon - dLon},
		NorthEast: LatLng{Lat: b.NorthEast.Lat + dLat, Lon: b.NorthEast.Lon + dLon},
	}
}
