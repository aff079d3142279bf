package geocode

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a free-text place name. found is false when the
// service answered but had no usable match.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (coords Coordinates, found bool, err error)
}

// Nominatim queries an OpenStreetMap Nominatim instance, restricted to Sweden.
type Nominatim struct {
	client    *fasthttp.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func NewNominatim(baseURL, contact string, timeout time.Duration) *Nominatim {
	userAgent := fmt.Sprintf("reports-admin/1.0 (contact: %s)", contact)
	return &Nominatim{
		client:    &fasthttp.Client{Name: userAgent},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *Nominatim) Lookup(ctx context.Context, name string) (Coordinates, bool, error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {"1"},
		"q":      {name + ", Sweden"},
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	req.SetRequestURI(n.baseURL + "/search?" + params.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(n.userAgent)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(n.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := n.client.DoDeadline(req, res, deadline); err != nil {
		return Coordinates{}, false, fmt.Errorf("could not query geocoder: %w", err)
	}

	if res.StatusCode() != fasthttp.StatusOK {
		return Coordinates{}, false, fmt.Errorf("geocoder returned status %d", res.StatusCode())
	}

	var places []place
	if err := jsoniter.Unmarshal(res.Body(), &places); err != nil {
		return Coordinates{}, false, fmt.Errorf("could not decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		return Coordinates{}, false, nil
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil || !finite(lat) || !finite(lon) {
		return Coordinates{}, false, nil
	}

	return Coordinates{Latitude: lat, Longitude: lon}, true, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
