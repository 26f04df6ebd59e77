package shared

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"apt_reviews/internal/adapters/memcache"
	redisad "apt_reviews/internal/adapters/redis"
	"apt_reviews/internal/domain"
)

// OpenDB opens and pings MySQL.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sql.Open")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "db ping")
	}
	return db, nil
}

// OpenCache returns Redis when REDIS_ADDR is set and an in-process cache
// otherwise. The returned func releases the cache.
func OpenCache(ctx context.Context, c Config) (domain.Cache, func(), error) {
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, using in-process cache")
		return memcache.New(c.CacheTTL, 10*time.Minute), func() {}, nil
	}
	rc := redisad.New(c.RedisAddr, c.RedisPass, c.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, eris.Wrapf(err, "redis ping %s", c.RedisAddr)
	}
	return rc, func() { _ = rc.Close() }, nil
}
