// Package engine applies instructions to the record store.
//
// ARCHITECTURE:
//
// Single Writer:
// Apply calls are serialized by a mutex. Each instruction consumes one seq
// from the logical Clock and runs in one store transaction:
//
//  1. Resolve: check the instruction's shape and fix its target address
//     (derived for vote and create_alias, supplied otherwise)
//  2. Guard: for update and delete, load the record and require
//     caller == owner
//  3. Validate: length bounds (tag, then content or alias), then
//     non-emptiness, then no-op detection for updates
//  4. Mutate: insert, replace or delete the record
//  5. Journal: append the instruction and its outcome
//
// Validation fully precedes mutation, so a rejected instruction writes
// nothing but its journal entry. Storage failures roll the whole
// transaction back, journal entry included.
//
// ERRORS:
//
// Rejections are *InstructionError values carrying a Code. Match them with
// errors.Is against the Err* sentinels or read the code with CodeOf. Any
// other error is a storage or context failure.
//
// TIME:
//
// created_at of a new record is the seq of the instruction that created
// it. Wall time is never consulted, which makes Replay exact.
package engine
