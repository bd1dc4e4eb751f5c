package cache

// Stats are cumulative cache counters. Fields are updated under the cache
// mutex; Stats() returns a consistent snapshot. The struct carries no
// locking of its own.
type Stats struct {
	// Hits counts Gets answered from a live entry.
	Hits uint64
	// Misses counts Gets on absent or expired keys.
	Misses uint64
	// Evictions counts entries removed by capacity pressure.
	Evictions uint64
	// Expirations counts entries removed because their TTL elapsed,
	// whether discovered lazily or by the background sweep.
	Expirations uint64
}

// HitRatio returns Hits/(Hits+Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
