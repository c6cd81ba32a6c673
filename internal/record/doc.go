// Package record defines the fixed binary layout of every stored record.
//
// Each record is serialized as an 8-byte kind discriminator followed by its
// fields in declared order:
//
//	identity / address   32 bytes, raw
//	timestamp            8 bytes, int64 little-endian (logical clock)
//	bool                 1 byte, 0 or 1
//	string               uint32 little-endian byte length + UTF-8 bytes
//	optional address     1 presence byte + 32 bytes (zero when absent)
//	voting result        1 byte (like=0, none=1, dislike=2)
//
// The discriminator is the first 8 bytes of SHA-256("account:" + kind name).
//
// # Layout
//
//	Tweet          disc | owner | created_at | tag | content | edited
//	Comment        disc | owner | tweet | parent? | created_at | content | edited
//	Voting         disc | owner | tweet | created_at | result
//	DirectMessage  disc | owner | recipient | created_at | content
//	UserAlias      disc | owner | created_at | alias
//
// The layout is the wire contract of the byte-offset query layer. Reordering
// or resizing any field breaks existing stored records and every offset
// predicate built against them; the Offset* constants are the only offsets
// callers should use.
package record
