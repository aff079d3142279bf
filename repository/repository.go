package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Grupp05-AI/Admin-sida/tips"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

const (
	tableName    = "reports"
	queryTimeout = 5 * time.Second
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	tipColumns = []string{
		"id",
		"text",
		"place",
		"event_time",
		"category",
		"threat_level",
		"threat_reason",
		"summary",
		"created_at",
		"latitude",
		"longitude",
		"contact",
		"image_url",
	}

	// Every column not listed above ends up in Tip.Extra.
	extraColumn = fmt.Sprintf("to_jsonb(%s) - '{%s}'::text[] AS extra", tableName, strings.Join(tipColumns, ","))

	searchColumns = []string{"text", "summary", "threat_reason", "place", "category"}
)

// Querier is the part of pgxpool.Pool the repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool  Querier
	close func()
}

// New connects to the store. The service key is used as the connection
// password so it never has to be embedded in the URL.
func New(ctx context.Context, connStr, serviceKey string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse database url: %w", err)
	}
	if serviceKey != "" {
		cfg.ConnConfig.Password = serviceKey
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	return &Repository{pool: pool, close: pool.Close}, nil
}

func NewWithQuerier(q Querier) *Repository {
	return &Repository{pool: q, close: func() {}}
}

func (repo *Repository) Close() {
	repo.close()
}

func (repo *Repository) ListTips(ctx context.Context, q tips.Query) ([]tips.Tip, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	countSQL, countArgs, err := buildCountQuery(q)
	if err != nil {
		return nil, 0, fmt.Errorf("could not build count query: %w", err)
	}
	var total int
	if err := repo.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("could not count tips: %w", err)
	}

	listSQL, listArgs, err := buildListQuery(q)
	if err != nil {
		return nil, 0, fmt.Errorf("could not build list query: %w", err)
	}
	rows, err := repo.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("could not query tips: %w", err)
	}

	results, err := scanTips(rows)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (repo *Repository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := psql.Select("category").
		From(tableName).
		Where(sq.NotEq{"category": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build categories query: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (repo *Repository) CountTips(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := psql.Select("count(*)").From(tableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("could not build count query: %w", err)
	}

	var count int
	if err := repo.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("could not count tips: %w", err)
	}
	return count, nil
}

func (repo *Repository) UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := buildUpdateCoordinates(id, lat, lon)
	if err != nil {
		return fmt.Errorf("could not build update query: %w", err)
	}

	if _, err := repo.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("could not update coordinates for tip %d: %w", id, err)
	}
	return nil
}

// ListUngeocoded returns tips that have a place but no coordinates, oldest first.
func (repo *Repository) ListUngeocoded(ctx context.Context, afterID int64, limit int) ([]tips.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := buildUngeocodedQuery(afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not build ungeocoded query: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query ungeocoded tips: %w", err)
	}
	return scanTips(rows)
}

func selectTips() sq.SelectBuilder {
	return psql.Select(tipColumns...).Column(extraColumn).From(tableName)
}

func applyFilters(b sq.SelectBuilder, q tips.Query) sq.SelectBuilder {
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		or := sq.Or{}
		for _, c := range searchColumns {
			or = append(or, sq.ILike{c: pattern})
		}
		b = b.Where(or)
	}

	switch len(q.Categories) {
	case 0:
	case 1:
		b = b.Where(sq.Eq{"category": q.Categories[0]})
	default:
		b = b.Where(sq.Eq{"category": q.Categories})
	}

	if q.From != nil {
		b = b.Where(sq.GtOrEq{"event_time": *q.From})
	}
	if q.To != nil {
		b = b.Where(sq.LtOrEq{"event_time": *q.To})
	}
	return b
}

func buildListQuery(q tips.Query) (string, []interface{}, error) {
	return applyFilters(selectTips(), q).
		OrderBy("created_at DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset())).
		ToSql()
}

func buildCountQuery(q tips.Query) (string, []interface{}, error) {
	return applyFilters(psql.Select("count(*)").From(tableName), q).ToSql()
}

func buildUpdateCoordinates(id int64, lat, lon float64) (string, []interface{}, error) {
	return psql.Update(tableName).
		Set("latitude", lat).
		Set("longitude", lon).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildUngeocodedQuery(afterID int64, limit int) (string, []interface{}, error) {
	return selectTips().
		Where(sq.NotEq{"place": nil}).
		Where(sq.NotEq{"place": ""}).
		Where(sq.Or{sq.Eq{"latitude": nil}, sq.Eq{"longitude": nil}}).
		Where(sq.Gt{"id": afterID}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
}

func scanTips(rows pgx.Rows) ([]tips.Tip, error) {
	defer rows.Close()

	results := make([]tips.Tip, 0)
	for rows.Next() {
		var (
			t     tips.Tip
			extra []byte
		)
		err := rows.Scan(&t.ID,
			&t.Text,
			&t.Place,
			&t.EventTime,
			&t.Category,
			&t.ThreatLevel,
			&t.ThreatReason,
			&t.Summary,
			&t.CreatedAt,
			&t.Latitude,
			&t.Longitude,
			&t.Contact,
			&t.ImageURL,
			&extra)
		if err != nil {
			return nil, fmt.Errorf("could not scan tip: %w", err)
		}
		t.Extra = decodeExtra(extra)
		results = append(results, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read tips: %w", err)
	}
	return results, nil
}

func decodeExtra(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := jsoniter.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return nil
	}
	return m
}
