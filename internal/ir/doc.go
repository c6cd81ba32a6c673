// Package ir provides the foundational types shared by every socialgraph package.
//
// ir imports nothing internal. It defines:
//   - Identity and Address: 32-byte opaque keys rendered as base58 text
//   - Op, Instruction, Args: the externally invoked instruction surface
//   - VotingResult: the tagged choice stored in Voting records
//   - Canonical JSON and domain-separated SHA-256 used for content-addressed
//     instruction IDs and derived addresses
//
// Key design constraints:
//   - Identities are compared by exact byte equality, never verified
//     cryptographically (authenticity is a precondition of the caller)
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
