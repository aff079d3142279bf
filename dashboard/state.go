// Package dashboard holds the tip browser's filter, pagination and
// rendering pipeline.
//
// Update is a pure transition from (State, Event) to (State, []Effect).
// Effects that need I/O (Fetch) or touch the map (FlyTo, PanTo, OpenPopup)
// are carried out by a Session; Derive produces the page and marker set
// from the state.
package dashboard

import (
	"strings"

	"github.com/Grupp05-AI/Admin-sida/region"
	"github.com/Grupp05-AI/Admin-sida/service"
	"github.com/Grupp05-AI/Admin-sida/threat"
	"github.com/Grupp05-AI/Admin-sida/tips"
)

const (
	PageSize = 7
	// FocusZoom is the minimum zoom used when flying to a selected tip.
	FocusZoom = 10
)

type State struct {
	Query    string
	DateFrom string
	DateTo   string
	Category string
	Region   region.Region
	Threat   threat.Level
	Page     int
	PageSize int
	Expanded *int64

	// Tips is every tip matching the server-side filters.
	Tips []tips.Tip
}

func NewState() State {
	return State{Page: 1, PageSize: PageSize}
}

// Params are the server-side filters of the state.
func (s State) Params() service.Params {
	return service.Params{
		Q:          s.Query,
		From:       s.DateFrom,
		To:         s.DateTo,
		Categories: s.Category,
	}
}

type Event interface{ isEvent() }

type (
	Start       struct{}
	SetQuery    struct{ Value string }
	SetDateFrom struct{ Value string }
	SetDateTo   struct{ Value string }
	SetCategory struct{ Value string }
	SetRegion   struct{ Value string }
	SetThreat   struct{ Value string }
	PrevPage    struct{}
	NextPage    struct{}
	FirstPage   struct{}
	SelectTip   struct{ ID int64 }
	CloseDetail struct{}
	FocusTip    struct{ ID int64 }
	Loaded      struct{ Tips []tips.Tip }
	LoadFailed  struct{ Message string }
)

func (Start) isEvent()       {}
func (SetQuery) isEvent()    {}
func (SetDateFrom) isEvent() {}
func (SetDateTo) isEvent()   {}
func (SetCategory) isEvent() {}
func (SetRegion) isEvent()   {}
func (SetThreat) isEvent()   {}
func (PrevPage) isEvent()    {}
func (NextPage) isEvent()    {}
func (FirstPage) isEvent()   {}
func (SelectTip) isEvent()   {}
func (CloseDetail) isEvent() {}
func (FocusTip) isEvent()    {}
func (Loaded) isEvent()      {}
func (LoadFailed) isEvent()  {}

type Effect interface{ isEffect() }

type (
	Fetch     struct{ Params service.Params }
	Derive    struct{ FitBounds bool }
	FlyTo     struct{ Lat, Lon float64 }
	PanTo     struct{ Lat, Lon float64 }
	OpenPopup struct{ ID int64 }
	ShowError struct{ Message string }
)

func (Fetch) isEffect()     {}
func (Derive) isEffect()    {}
func (FlyTo) isEffect()     {}
func (PanTo) isEffect()     {}
func (OpenPopup) isEffect() {}
func (ShowError) isEffect() {}

// Update applies one event to the state.
func Update(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Start:
		s.Page = 1
		return s, []Effect{Fetch{Params: s.Params()}}

	case SetQuery:
		s.Query = strings.TrimSpace(e.Value)
		return refetch(s)
	case SetDateFrom:
		s.DateFrom = strings.TrimSpace(e.Value)
		return refetch(s)
	case SetDateTo:
		s.DateTo = strings.TrimSpace(e.Value)
		return refetch(s)
	case SetCategory:
		s.Category = strings.TrimSpace(e.Value)
		return refetch(s)

	case SetRegion:
		s.Region = ""
		if r, ok := region.Parse(e.Value); ok {
			s.Region = r
		}
		s.Page = 1
		return s, []Effect{Derive{FitBounds: true}}
	case SetThreat:
		s.Threat = ""
		if v := strings.TrimSpace(e.Value); v != "" {
			s.Threat = threat.Normalize(v)
		}
		s.Page = 1
		return s, []Effect{Derive{FitBounds: true}}

	case PrevPage:
		if s.Page <= 1 {
			return s, nil
		}
		s.Page--
		return s, []Effect{Derive{FitBounds: true}}
	case NextPage:
		if s.Page >= TotalPages(len(Filter(s)), s.PageSize) {
			return s, nil
		}
		s.Page++
		return s, []Effect{Derive{FitBounds: true}}
	case FirstPage:
		s.Page = 1
		return s, []Effect{Derive{FitBounds: true}}

	case SelectTip:
		id := e.ID
		s.Expanded = &id
		effects := []Effect{Derive{FitBounds: false}}
		if t, ok := find(s.Tips, id); ok && t.HasCoordinates() {
			effects = append(effects, FlyTo{Lat: *t.Latitude, Lon: *t.Longitude}, OpenPopup{ID: id})
		}
		return s, effects
	case CloseDetail:
		s.Expanded = nil
		return s, []Effect{Derive{FitBounds: false}}
	case FocusTip:
		t, ok := find(s.Tips, e.ID)
		if !ok {
			return s, nil
		}
		s = focus(s, e.ID)
		effects := []Effect{Derive{FitBounds: false}}
		if t.HasCoordinates() {
			effects = append(effects, PanTo{Lat: *t.Latitude, Lon: *t.Longitude}, OpenPopup{ID: e.ID})
		}
		return s, effects

	case Loaded:
		s.Tips = e.Tips
		return s, []Effect{Derive{FitBounds: true}}
	case LoadFailed:
		return s, []Effect{ShowError{Message: e.Message}}
	}
	return s, nil
}

func refetch(s State) (State, []Effect) {
	s.Page = 1
	return s, []Effect{Fetch{Params: s.Params()}}
}

// focus moves the state to the page holding id, clearing the client-side
// filters when they hide the tip.
func focus(s State, id int64) State {
	idx := indexOf(Filter(s), id)
	if idx < 0 {
		s.Region = ""
		s.Threat = ""
		idx = indexOf(Filter(s), id)
	}
	if idx < 0 {
		s.Page = 1
	} else {
		s.Page = idx/s.PageSize + 1
	}
	s.Expanded = &id
	return s
}

func find(all []tips.Tip, id int64) (tips.Tip, bool) {
	if i := indexOf(all, id); i >= 0 {
		return all[i], true
	}
	return tips.Tip{}, false
}

func indexOf(all []tips.Tip, id int64) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
