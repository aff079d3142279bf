package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/Grupp05-AI/Admin-sida/region"
	"github.com/Grupp05-AI/Admin-sida/threat"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func tipAt(id int64, lat, lon float64, level string) tips.Tip {
	t := tips.Tip{
		ID:          id,
		Text:        strp(fmt.Sprintf("tip %d", id)),
		ThreatLevel: strp(level),
		CreatedAt:   time.Date(2025, 9, 14, 11, 5, 0, 0, time.UTC),
	}
	t.SetCoordinates(lat, lon)
	return t
}

func loaded(all ...tips.Tip) State {
	s := NewState()
	s.Tips = all
	return s
}

func northTips(n int) []tips.Tip {
	out := make([]tips.Tip, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tipAt(int64(i+1), 65, 20, "medel"))
	}
	return out
}

func Test_ServerSideFiltersFetchFromFirstPage(t *testing.T) {
	s := loaded(northTips(20)...)
	s.Page = 3

	s, effects := Update(s, SetQuery{Value: "  drönare "})

	assert.Equal(t, 1, s.Page)
	require.Len(t, effects, 1)
	fetch, ok := effects[0].(Fetch)
	require.True(t, ok)
	assert.Equal(t, "drönare", fetch.Params.Q)

	s, effects = Update(s, SetCategory{Value: "Drönare"})
	require.Len(t, effects, 1)
	assert.Equal(t, "Drönare", effects[0].(Fetch).Params.Categories)
	assert.Equal(t, "drönare", effects[0].(Fetch).Params.Q)
}

func Test_ClientFiltersDeriveWithFit(t *testing.T) {
	s := loaded(northTips(20)...)
	s.Page = 2

	s, effects := Update(s, SetRegion{Value: "Norra"})

	assert.Equal(t, region.North, s.Region)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []Effect{Derive{FitBounds: true}}, effects)

	s, _ = Update(s, SetThreat{Value: "Medel hotbild"})
	assert.Equal(t, threat.Medium, s.Threat)

	s, _ = Update(s, SetRegion{Value: ""})
	assert.Equal(t, region.Region(""), s.Region)
}

func Test_PageNavigationIsBounded(t *testing.T) {
	s := loaded(northTips(20)...)
	assert.Equal(t, 3, TotalPages(len(Filter(s)), s.PageSize))

	s, effects := Update(s, PrevPage{})
	assert.Equal(t, 1, s.Page)
	assert.Nil(t, effects)

	for i := 0; i < 5; i++ {
		s, _ = Update(s, NextPage{})
	}
	assert.Equal(t, 3, s.Page)

	_, effects = Update(s, NextPage{})
	assert.Nil(t, effects)

	s, effects = Update(s, FirstPage{})
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []Effect{Derive{FitBounds: true}}, effects)
}

func Test_PaginationCoversEveryTipOnce(t *testing.T) {
	for _, n := range []int{0, 1, 6, 7, 8, 14, 15, 50} {
		s := loaded(northTips(n)...)
		total := TotalPages(n, PageSize)
		seen := map[int64]int{}

		for p := 1; p <= total; p++ {
			s.Page = p
			_, v := Paginate(s)
			assert.Equal(t, p, v.Page)
			assert.LessOrEqual(t, len(v.Items), PageSize)
			for _, tip := range v.Items {
				seen[tip.ID]++
			}
		}

		assert.Len(t, seen, n, "n=%d", n)
		for id, c := range seen {
			assert.Equal(t, 1, c, "tip %d", id)
		}
	}
}

func Test_PageBeyondTotalResetsToFirst(t *testing.T) {
	s := loaded(northTips(3)...)
	s.Page = 4

	s, v := Paginate(s)

	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 1, v.Page)
	assert.Len(t, v.Items, 3)
}

func Test_FilterOrderDoesNotMatter(t *testing.T) {
	all := []tips.Tip{
		tipAt(1, 65, 20, "kritisk"),
		tipAt(2, 65, 20, "låg hotbild"),
		tipAt(3, 57, 15, "kritisk hotbild"),
		tipAt(4, 59, 16, "Kritisk"),
		{ID: 5, ThreatLevel: strp("kritisk")},
	}
	s := loaded(all...)
	s.Region = region.North
	s.Threat = threat.Critical

	got := Filter(s)

	var threatFirst []tips.Tip
	for _, tip := range all {
		if threat.NormalizePtr(tip.ThreatLevel) == threat.Critical {
			threatFirst = append(threatFirst, tip)
		}
	}
	var want []tips.Tip
	for _, tip := range threatFirst {
		if region.ClassifyPtr(tip.Latitude, tip.Longitude) == region.North {
			want = append(want, tip)
		}
	}

	assert.Equal(t, want, got)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func Test_EmptyRegionShowsDefaultView(t *testing.T) {
	s := loaded(northTips(4)...)

	s, effects := Update(s, SetRegion{Value: "Gotland"})
	require.Equal(t, []Effect{Derive{FitBounds: true}}, effects)

	s, v := Paginate(s)
	assert.Empty(t, v.Items)
	assert.Empty(t, v.Markers)
	assert.Nil(t, v.Bounds)
	assert.Equal(t, "Sida 1 / 1", PageInfo(v.Page, v.TotalPages))

	action := fitAction(v)
	assert.Equal(t, "setView", action.Type)
	assert.Equal(t, 62.0, action.Lat)
	assert.Equal(t, 16.0, action.Lon)
	assert.Equal(t, 4.6, action.Zoom)

	list, err := RenderList(v)
	require.NoError(t, err)
	assert.Contains(t, list, "Inga tips hittades.")
}

func Test_MarkersCoverWholeFilteredSet(t *testing.T) {
	all := northTips(10)
	all = append(all, tips.Tip{ID: 99, Place: strp("Okänt")})
	s := loaded(all...)

	_, v := Paginate(s)

	assert.Len(t, v.Items, PageSize)
	assert.Len(t, v.Markers, 10)
	require.NotNil(t, v.Bounds)
	assert.Equal(t, "pulse-medium", v.Markers[0].Class)
	assert.Contains(t, v.Markers[0].Popup, `data-focus="1"`)
}

func Test_SelectTipFliesToPlacedTip(t *testing.T) {
	s := loaded(tipAt(1, 59.3, 18.0, "hög"), tips.Tip{ID: 2})

	s, effects := Update(s, SelectTip{ID: 1})

	require.NotNil(t, s.Expanded)
	assert.Equal(t, int64(1), *s.Expanded)
	assert.Equal(t, []Effect{
		Derive{FitBounds: false},
		FlyTo{Lat: 59.3, Lon: 18.0},
		OpenPopup{ID: 1},
	}, effects)

	_, effects = Update(s, SelectTip{ID: 2})
	assert.Equal(t, []Effect{Derive{FitBounds: false}}, effects)
}

func Test_ExpandedTipOffPageIsCleared(t *testing.T) {
	s := loaded(northTips(10)...)
	id := int64(9)
	s.Expanded = &id

	s, v := Paginate(s)

	assert.Nil(t, s.Expanded)
	assert.Nil(t, v.Expanded)

	s.Page = 2
	s.Expanded = &id
	s, v = Paginate(s)
	require.NotNil(t, v.Expanded)
	assert.Equal(t, id, v.Expanded.ID)
}

func Test_CloseDetail(t *testing.T) {
	s := loaded(northTips(2)...)
	id := int64(1)
	s.Expanded = &id

	s, effects := Update(s, CloseDetail{})

	assert.Nil(t, s.Expanded)
	assert.Equal(t, []Effect{Derive{FitBounds: false}}, effects)
}

func Test_FocusClearsHidingFilters(t *testing.T) {
	all := northTips(8)
	all = append(all, tipAt(100, 56.0, 14.0, "låg"))
	s := loaded(all...)
	s.Region = region.North
	s.Threat = threat.Medium

	s, effects := Update(s, FocusTip{ID: 100})

	assert.Equal(t, region.Region(""), s.Region)
	assert.Equal(t, threat.Level(""), s.Threat)
	assert.Equal(t, 2, s.Page)
	require.NotNil(t, s.Expanded)
	assert.Equal(t, int64(100), *s.Expanded)
	assert.Equal(t, []Effect{
		Derive{FitBounds: false},
		PanTo{Lat: 56.0, Lon: 14.0},
		OpenPopup{ID: 100},
	}, effects)

	_, v := Paginate(s)
	require.NotNil(t, v.Expanded)
	assert.Equal(t, int64(100), v.Expanded.ID)
}

func Test_FocusKeepsFiltersWhenVisible(t *testing.T) {
	s := loaded(northTips(10)...)
	s.Region = region.North

	s, _ = Update(s, FocusTip{ID: 9})

	assert.Equal(t, region.North, s.Region)
	assert.Equal(t, 2, s.Page)
}

func Test_FocusUnknownTipIsIgnored(t *testing.T) {
	s := loaded(northTips(3)...)

	next, effects := Update(s, FocusTip{ID: 42})

	assert.Nil(t, effects)
	assert.Equal(t, s, next)
}

func Test_LoadedAndLoadFailed(t *testing.T) {
	s := loaded(northTips(3)...)

	failed, effects := Update(s, LoadFailed{Message: "boom"})
	assert.Equal(t, []Effect{ShowError{Message: "boom"}}, effects)
	assert.Equal(t, s.Tips, failed.Tips)

	s, effects = Update(s, Loaded{Tips: northTips(1)})
	assert.Len(t, s.Tips, 1)
	assert.Equal(t, []Effect{Derive{FitBounds: true}}, effects)
}

func Test_BoundsPad(t *testing.T) {
	b := Bounds{SouthWest: LatLng{Lat: 55, Lon: 10}, NorthEast: LatLng{Lat: 65, Lon: 20}}

	p := b.Pad(0.2)

	assert.InDelta(t, 53.0, p.SouthWest.Lat, 1e-9)
	assert.InDelta(t, 8.0, p.SouthWest.Lon, 1e-9)
	assert.InDelta(t, 67.0, p.NorthEast.Lat, 1e-9)
	assert.InDelta(t, 22.0, p.NorthEast.Lon, 1e-9)
}
