// Package store provides SQLite-backed durable storage for records and the
// instruction journal.
//
// # Tables
//
//   - records: one row per live record, keyed by its 32-byte address, holding
//     the kind and the exact serialized bytes
//   - journal: every applied instruction with its outcome, keyed by seq
//
// # Ordering
//
// All ordering uses seq (the engine's logical clock), never wall time.
// Record queries order by seq ASC, address ASC so scans enumerate records
// in creation order with a total tiebreaker, identically across replays.
//
// # Writes
//
// Writes happen only inside Update, one transaction per instruction. Reads
// outside Update see committed state only.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
