/*
Package nbt implements the editable core of an NBT editor: the tagged value
tree, its binary codec, the gzip/zlib/raw compression envelope, the
1024-slot sector-addressed region container, and the row-indexed mutation
resolver that turns a linear display row into a concrete edit location.

We implement:

1. Elements, a closed 13-kind tagged value tree (plus in-memory region and
chunk pseudo-kinds), with cached visible and fully-expanded row counts kept
consistent by every mutation.

2. The binary tag codec: one tag byte, then a kind-specific big-endian
payload; documents framed by the fixed 0x0A 0x00 0x00 preamble.

3. The compression envelope: discriminant 1 is gzip, 2 is zlib, 3 is raw.
Decoding tolerates checksum mismatches but rejects truncated streams.

4. The region codec: an 8192-byte header of offset and timestamp records
followed by 4096-byte sectors, decoded and encoded with one task per slot.
Encoding compacts sectors; a re-encoded file is equivalent, not identical.

5. Drop, the mutation resolver: given a pending key/value, a remaining row
budget and a target depth, it either inserts (Dropped), hands the value back
for the caller to retry upward (Missed), or rejects the kind (InvalidType).

# Error handling

Malformed input never panics. Decoding returns a *DataError carrying the
offending buffer and offset; a bad region slot rejects that slot only.
Structural inserts against an incompatible target return ErrTypeRejected
with no partial mutation.

# Concurrency

Region decode and encode, and Expand, fork one task per slot or child batch
and join before returning. Tasks touch disjoint data; no other operation is
safe to call concurrently with a mutation.
*/
package nbt
