package id

import (
	"encoding/binary"
	"sync"
	"time"
)

// ID is a 128-bit, lexicographically sortable identifier encoded big-endian as
// [8 bytes ms_timestamp][8 bytes sequence]. The engine stamps one on every
// scheduled operation for log correlation.
type ID [16]byte

// String returns a hex string.
func (i ID) String() string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(i)*2)
	for idx, v := range i {
		out[idx*2] = hexdigits[v>>4]
		out[idx*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMs returns current time in milliseconds since Unix epoch.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns a new ID, monotonic even if the clock steps backwards.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	if ms == g.lastMs {
		g.sequence++
	} else {
		g.sequence = 0
	}
	g.lastMs = ms

	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], g.sequence)
	return id
}
