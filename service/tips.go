package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Grupp05-AI/Admin-sida/tips"
	masker "github.com/ggwhite/go-masker"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
	// MaxFetchAll caps how many rows FetchAll collects for the dashboard.
	MaxFetchAll = 10000
)

type Store interface {
	ListTips(ctx context.Context, q tips.Query) ([]tips.Tip, int, error)
	Categories(ctx context.Context) ([]string, error)
	CountTips(ctx context.Context) (int, error)
}

type Backfiller interface {
	Backfill(ctx context.Context, rows []tips.Tip) int
}

// TipService answers tip and category queries and enriches listed rows
// with geocoded coordinates.
type TipService struct {
	store       Store
	backfiller  Backfiller
	maskContact bool
}

func NewTipService(store Store, backfiller Backfiller, maskContact bool) *TipService {
	return &TipService{store: store, backfiller: backfiller, maskContact: maskContact}
}

// Params are the raw query string values of a tip listing request.
type Params struct {
	Q          string
	From       string
	To         string
	Categories string
	Page       string
	Limit      string
}

// ParseQuery clamps paging and expands the date bounds to full UTC days.
func ParseQuery(p Params) (tips.Query, error) {
	q := tips.Query{
		Search: strings.TrimSpace(p.Q),
		Page:   atoiOr(p.Page, 1),
		Limit:  atoiOr(p.Limit, DefaultLimit),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	for _, c := range strings.Split(p.Categories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			q.Categories = append(q.Categories, c)
		}
	}

	if from := strings.TrimSpace(p.From); from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return q, fmt.Errorf("invalid from date %q", from)
		}
		q.From = &d
	}
	if to := strings.TrimSpace(p.To); to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			return q, fmt.Errorf("invalid to date %q", to)
		}
		end := d.Add(24*time.Hour - time.Millisecond)
		q.To = &end
	}

	return q, nil
}

func (s *TipService) List(ctx context.Context, q tips.Query) (*tips.ListResponse, error) {
	items, total, err := s.store.ListTips(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.backfiller != nil {
		s.backfiller.Backfill(ctx, items)
	}
	if s.maskContact {
		for i := range items {
			maskContact(&items[i])
		}
	}

	return &tips.ListResponse{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// FetchAll pages through every tip matching the server-side filters.
func (s *TipService) FetchAll(ctx context.Context, q tips.Query) ([]tips.Tip, error) {
	q.Page = 1
	q.Limit = MaxLimit

	all := make([]tips.Tip, 0)
	for {
		res, err := s.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < q.Limit || len(all) >= res.Total || len(all) >= MaxFetchAll {
			break
		}
		q.Page++
	}
	if len(all) > MaxFetchAll {
		all = all[:MaxFetchAll]
	}
	return all, nil
}

func (s *TipService) Categories(ctx context.Context) ([]tips.Category, error) {
	raw, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return tips.UniqueCategories(raw), nil
}

func (s *TipService) Health(ctx context.Context) (int, error) {
	return s.store.CountTips(ctx)
}

func maskContact(t *tips.Tip) {
	if t.Contact == nil || *t.Contact == "" {
		return
	}
	c := *t.Contact
	var masked string
	switch {
	case strings.Contains(c, "@"):
		masked = masker.Email(c)
	case strings.IndexFunc(c, isDigit) >= 0:
		masked = masker.Mobile(strings.Map(keepDigits, c))
	default:
		masked = masker.Name(c)
	}
	t.Contact = &masked
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func keepDigits(r rune) rune {
	if isDigit(r) {
		return r
	}
	return -1
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
