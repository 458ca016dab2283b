package qlog

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Entry encoding: tsMs(8 BE) | payload | crc32c(ts|payload)
// Meta encoding:  firstSeq(8 BE) | lastSeq(8 BE) | payloadBytes(8 BE) | crc32c

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrCorrupted reports an unreadable meta, cursor, or entry cell. It is fatal
// at open time and marks the owning engine unhealthy when hit mid-operation.
var ErrCorrupted = errors.New("qlog: corrupted store state")

const (
	entryOverhead = 8 + 4
	metaLen       = 8 + 8 + 8 + 4
	cursorLen     = 8
)

// EncodeEntry encodes a payload with its write timestamp (ms).
func EncodeEntry(tsMs int64, payload []byte) []byte {
	out := make([]byte, 0, entryOverhead+len(payload))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(tsMs))
	out = append(out, ts[:]...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, out)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

// DecodeEntry returns the write timestamp and a copy of the payload.
func DecodeEntry(b []byte) (int64, []byte, error) {
	if len(b) < entryOverhead {
		return 0, nil, ErrCorrupted
	}
	body := b[:len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.Update(0, castagnoli, body) != expect {
		return 0, nil, ErrCorrupted
	}
	tsMs := int64(binary.BigEndian.Uint64(body[:8]))
	payload := append([]byte(nil), body[8:]...)
	return tsMs, payload, nil
}

// entryTs reads just the timestamp without copying the payload.
func entryTs(b []byte) (int64, error) {
	if len(b) < entryOverhead {
		return 0, ErrCorrupted
	}
	return int64(binary.BigEndian.Uint64(b[:8])), nil
}

// entryPayloadLen reports the payload size of an encoded entry.
func entryPayloadLen(b []byte) int {
	if len(b) < entryOverhead {
		return 0
	}
	return len(b) - entryOverhead
}

type meta struct {
	first        uint64
	last         uint64
	payloadBytes uint64
}

func encodeMeta(m meta) []byte {
	out := make([]byte, 0, metaLen)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], m.first)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint64(b[:], m.last)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint64(b[:], m.payloadBytes)
	out = append(out, b[:]...)

	crc := crc32.Update(0, castagnoli, out)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

func decodeMeta(b []byte) (meta, error) {
	if len(b) != metaLen {
		return meta{}, ErrCorrupted
	}
	body := b[:metaLen-4]
	expect := binary.BigEndian.Uint32(b[metaLen-4:])
	if crc32.Update(0, castagnoli, body) != expect {
		return meta{}, ErrCorrupted
	}
	return meta{
		first:        binary.BigEndian.Uint64(body[0:8]),
		last:         binary.BigEndian.Uint64(body[8:16]),
		payloadBytes: binary.BigEndian.Uint64(body[16:24]),
	}, nil
}

func encodeCursor(next uint64) []byte {
	b := make([]byte, cursorLen)
	binary.BigEndian.PutUint64(b, next)
	return b
}

func decodeCursor(b []byte) (uint64, error) {
	if len(b) != cursorLen {
		return 0, ErrCorrupted
	}
	return binary.BigEndian.Uint64(b), nil
}
