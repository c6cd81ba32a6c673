// Package query expresses record filters as byte-range equality predicates.
//
// No secondary index exists. A filter is a list of Memcmp predicates, each
// naming a fixed offset in the serialized record and the exact bytes
// expected there; a record matches when every predicate matches. The
// builders in this package produce predicates at the offsets exported by
// package record, so callers never hard-code positions.
//
// SCOPE:
//
// Predicates support exact equality only. Partial strings, ranges and
// fields whose position depends on an earlier variable-length field (for
// example Tweet content, which follows the tag) are out of reach unless the
// earlier field is pinned by another predicate.
//
// TAGS:
//
// TweetTag includes the tag's length prefix, so "rust" never matches
// "rustacean". An empty tag matches only untagged tweets.
package query
