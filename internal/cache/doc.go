// Package cache implements an in-process, capacity-bounded cache with
// per-entry TTL expiration and LRU eviction.
//
// Key properties:
//
//   - Fixed capacity chosen at construction; inserting into a full cache
//     evicts the least recently used entry.
//   - Per-entry TTL, enforced lazily on access. An optional background
//     sweep (Config.CleanupInterval) reclaims expired entries that are
//     never read again.
//   - Safe for concurrent use. All operations run under a single mutex;
//     each one is O(1) map and pointer work, nothing blocks inside it.
//
// Len counts entries that are structurally present, including expired ones
// not yet discovered, so it is an upper bound on live entries.
package cache
