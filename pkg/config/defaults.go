package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tablebook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 15 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 1 << 20

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 20 * time.Second

	// Operating defaults mirror the values restaurants are seeded with:
	// open 8:00, close 23:00, 90-minute seating, half-hour slot grid,
	// parties of two, at most three active reservations per guest per day.
	DefaultDefaultOperatingStart   = 8.0
	DefaultDefaultOperatingEnd     = 23.0
	DefaultDefaultDurationHours    = 1.5
	DefaultDefaultGranularityHours = 0.5
	DefaultDefaultPartySize        = 2
	DefaultMaxDailyReservations    = 3

	DefaultSlotLockTTL = 10 * time.Second

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	if limit > MaxPaginationLimit {
		return MaxPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	if offset < 0 {
		return 0
	}
	return offset
}
