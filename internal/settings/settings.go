// Package settings serves the site-wide key/value settings shown in every page layout.
package settings

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const cacheKey = "site:settings"

// Defaults apply whenever a key is missing or empty in site_settings.
var Defaults = map[string]string{
	"site_name":              "YessBangal",
	"site_tagline":           "Innovative IT Solutions",
	"logo_url":               "",
	"banner_url":             "",
	"hero_banner_url":        "",
	"contact_phone_1":        "+88 019 162 11111",
	"contact_phone_2":        "+880 1XXX-XXXXXX",
	"contact_email_1":        "yessbangla.bd@gmail.com",
	"contact_email_2":        "support@yessbangal.com",
	"contact_address_line_1": "11/A, Main Road # 3, Plot # 10",
	"contact_address_line_2": "Mirpur, Dhaka 1216",
	"business_hours_1":       "Sat - Thu: 9AM - 6PM",
	"business_hours_2":       "Friday: Closed",
	"social_facebook":        "",
	"social_twitter":         "",
	"social_instagram":       "",
	"social_linkedin":        "",
	"social_youtube":         "",
}

// Store reads and writes site_settings rows.
type Store interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs the PostgreSQL settings store.
func NewPGStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, COALESCE(value, '') FROM site_settings`)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	var key, value string
	_, err = pgx.ForEachRow(rows, []any{&key, &value}, func() error {
		out[key] = value
		return nil
	})
	return out, err
}

func (s *pgStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO site_settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	return err
}

// Service merges stored settings over Defaults and caches the result in Redis.
type Service struct {
	store  Store
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs the settings service. client may be nil to disable caching.
func NewService(store Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{store: store, redis: client, ttl: ttl, logger: logger}
}

// Values returns the effective settings. It never fails: on errors the defaults are served.
func (s *Service) Values(ctx context.Context) map[string]string {
	if s.redis != nil {
		cached, err := s.redis.HGetAll(ctx, cacheKey).Result()
		if err != nil {
			s.logger.Warn("read settings cache", slog.Any("error", err))
		} else if len(cached) > 0 {
			return merge(cached)
		}
	}
	stored, err := s.store.All(ctx)
	if err != nil {
		s.logger.Warn("load site settings", slog.Any("error", err))
		return merge(nil)
	}
	values := merge(stored)
	if s.redis != nil {
		fields := make(map[string]any, len(values))
		for k, v := range values {
			fields[k] = v
		}
		_, err := s.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, cacheKey, fields)
			p.Expire(ctx, cacheKey, s.ttl)
			return nil
		})
		if err != nil {
			s.logger.Warn("write settings cache", slog.Any("error", err))
		}
	}
	return values
}

// Set stores one setting and drops the cached copy.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	return s.Invalidate(ctx)
}

// Invalidate removes the cached settings.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey).Err()
}

func merge(stored map[string]string) map[string]string {
	out := maps.Clone(Defaults)
	for k, v := range stored {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
