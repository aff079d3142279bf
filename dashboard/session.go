package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Grupp05-AI/Admin-sida/pkg/metrics"
	"github.com/Grupp05-AI/Admin-sida/service"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const boundsPadding = 0.2

var (
	ErrSessionNotFound = errors.New("dashboard session not found")
	ErrUnknownEvent    = errors.New("unknown dashboard event")
)

// Fetcher loads every tip matching the server-side filters.
type Fetcher interface {
	FetchAll(ctx context.Context, q tips.Query) ([]tips.Tip, error)
}

type MapAction struct {
	Type   string  `json:"type"`
	Bounds *Bounds `json:"bounds,omitempty"`
	Lat    float64 `json:"lat,omitempty"`
	Lon    float64 `json:"lon,omitempty"`
	Zoom   float64 `json:"zoom,omitempty"`
	ID     int64   `json:"id,omitempty"`
}

type Filters struct {
	Query    string `json:"query"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Threat   string `json:"threat"`
}

// Response is what the browser shell applies after each event.
type Response struct {
	SessionID    string      `json:"session_id"`
	Filters      Filters     `json:"filters"`
	ListHTML     string      `json:"list_html"`
	PageInfo     string      `json:"page_info"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	Filtered     int         `json:"filtered"`
	PrevDisabled bool        `json:"prev_disabled"`
	NextDisabled bool        `json:"next_disabled"`
	ShowFirst    bool        `json:"show_first"`
	Markers      []Marker    `json:"markers"`
	KeepMarkers  bool        `json:"keep_markers"`
	Actions      []MapAction `json:"actions"`
}

// EventRequest is the wire form of an Event.
type EventRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	ID    int64  `json:"id"`
}

// DecodeEvent maps a wire event onto an Event.
func DecodeEvent(req EventRequest) (Event, error) {
	switch req.Type {
	case "reload":
		return Start{}, nil
	case "query":
		return SetQuery{Value: req.Value}, nil
	case "date_from":
		return SetDateFrom{Value: req.Value}, nil
	case "date_to":
		return SetDateTo{Value: req.Value}, nil
	case "category":
		return SetCategory{Value: req.Value}, nil
	case "region":
		return SetRegion{Value: req.Value}, nil
	case "threat":
		return SetThreat{Value: req.Value}, nil
	case "prev":
		return PrevPage{}, nil
	case "next":
		return NextPage{}, nil
	case "first":
		return FirstPage{}, nil
	case "select":
		return SelectTip{ID: req.ID}, nil
	case "close":
		return CloseDetail{}, nil
	case "focus":
		return FocusTip{ID: req.ID}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, req.Type)
}

// Session owns one browser's state. Events are applied one at a time.
type Session struct {
	mu       sync.Mutex
	id       string
	state    State
	last     Response
	fetcher  Fetcher
	lastSeen time.Time
}

func newSession(id string, fetcher Fetcher) (*Session, error) {
	s := &Session{id: id, state: NewState(), fetcher: fetcher}
	state, v := Paginate(s.state)
	s.state = state
	resp, err := s.respond(v)
	if err != nil {
		return nil, err
	}
	s.last = resp
	return s, nil
}

// Dispatch applies ev and every event its effects produce, and returns the
// resulting view.
func (s *Session) Dispatch(ctx context.Context, ev Event) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		view    *View
		errMsg  string
		actions []MapAction
	)

	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		s.state, effects = Update(s.state, next)
		for _, eff := range effects {
			switch e := eff.(type) {
			case Fetch:
				queue = append(queue, s.fetch(ctx, e.Params))
			case Derive:
				var v View
				s.state, v = Paginate(s.state)
				view = &v
				errMsg = ""
				if e.FitBounds {
					actions = append(actions, fitAction(v))
				}
			case ShowError:
				errMsg = e.Message
			case FlyTo:
				actions = append(actions, MapAction{Type: "flyTo", Lat: e.Lat, Lon: e.Lon, Zoom: FocusZoom})
			case PanTo:
				actions = append(actions, MapAction{Type: "panTo", Lat: e.Lat, Lon: e.Lon})
			case OpenPopup:
				actions = append(actions, MapAction{Type: "openPopup", ID: e.ID})
			}
		}
	}

	if view != nil {
		resp, err := s.respond(*view)
		if err != nil {
			return Response{}, err
		}
		s.last = resp
		resp.Actions = actions
		return resp, nil
	}

	resp := s.last
	resp.Filters = s.filters()
	resp.Markers = nil
	resp.KeepMarkers = true
	resp.Actions = actions
	if errMsg != "" {
		resp.ListHTML = RenderError(errMsg)
		s.last.ListHTML = resp.ListHTML
	}
	return resp, nil
}

// View returns the last rendered view.
func (s *Session) View() Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) fetch(ctx context.Context, p service.Params) Event {
	q, err := service.ParseQuery(p)
	if err != nil {
		return LoadFailed{Message: err.Error()}
	}
	rows, err := s.fetcher.FetchAll(ctx, q)
	if err != nil {
		return LoadFailed{Message: err.Error()}
	}
	return Loaded{Tips: rows}
}

func (s *Session) respond(v View) (Response, error) {
	list, err := RenderList(v)
	if err != nil {
		return Response{}, err
	}
	return Response{
		SessionID:    s.id,
		Filters:      s.filters(),
		ListHTML:     list,
		PageInfo:     PageInfo(v.Page, v.TotalPages),
		Page:         v.Page,
		TotalPages:   v.TotalPages,
		Filtered:     v.Filtered,
		PrevDisabled: v.Page <= 1,
		NextDisabled: v.Page >= v.TotalPages,
		ShowFirst:    v.Page >= v.TotalPages && v.TotalPages > 1,
		Markers:      v.Markers,
	}, nil
}

func (s *Session) filters() Filters {
	return Filters{
		Query:    s.state.Query,
		DateFrom: s.state.DateFrom,
		DateTo:   s.state.DateTo,
		Category: s.state.Category,
		Region:   string(s.state.Region),
		Threat:   string(s.state.Threat),
	}
}

func fitAction(v View) MapAction {
	if v.Bounds == nil {
		return MapAction{Type: "setView", Lat: DefaultCenter.Lat, Lon: DefaultCenter.Lon, Zoom: DefaultZoom}
	}
	padded := v.Bounds.Pad(boundsPadding)
	return MapAction{Type: "fitBounds", Bounds: &padded}
}

// Sessions is the registry of open dashboard sessions. Sessions idle for
// longer than the configured duration are dropped on the next Open.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	fetcher  Fetcher
	idle     time.Duration
	clock    clockwork.Clock
}

func NewSessions(fetcher Fetcher, idle time.Duration, clock clockwork.Clock) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		fetcher:  fetcher,
		idle:     idle,
		clock:    clock,
	}
}

// Open creates a session and loads its first page.
func (r *Sessions) Open(ctx context.Context) (Response, error) {
	r.sweep()

	sess, err := newSession(uuid.NewString(), r.fetcher)
	if err != nil {
		return Response{}, err
	}
	sess.lastSeen = r.clock.Now()

	r.mu.Lock()
	r.sessions[sess.id] = sess
	metrics.DashboardSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	return sess.Dispatch(ctx, Start{})
}

func (r *Sessions) Dispatch(ctx context.Context, id string, ev Event) (Response, error) {
	sess, ok := r.get(id)
	if !ok {
		return Response{}, ErrSessionNotFound
	}
	return sess.Dispatch(ctx, ev)
}

func (r *Sessions) View(id string) (Response, error) {
	sess, ok := r.get(id)
	if !ok {
		return Response{}, ErrSessionNotFound
	}
	return sess.View(), nil
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Sessions) get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.clock.Now()
	if r.idle > 0 && now.Sub(sess.lastSeen) > r.idle {
		delete(r.sessions, id)
		metrics.DashboardSessions.Set(float64(len(r.sessions)))
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

func (r *Sessions) sweep() {
	if r.idle <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for id, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.idle {
			delete(r.sessions, id)
		}
	}
	metrics.DashboardSessions.Set(float64(len(r.sessions)))
}
