// Package id provides 128-bit, lexicographically sortable operation IDs.
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence], so
// byte-wise comparison preserves chronological order and IDs generated within
// the same millisecond stay strictly increasing by sequence. The Generator
// pins to the last seen millisecond when the system clock regresses.
//
// Usage
//
//	g := id.NewGenerator()
//	opID := g.Next().String()
package id
