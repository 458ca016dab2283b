package qlog

import (
	"errors"
	"testing"
)

func TestEntryRoundTrip(t *testing.T) {
	enc := EncodeEntry(1234, []byte("payload"))
	ts, payload, err := DecodeEntry(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ts != 1234 || string(payload) != "payload" {
		t.Fatalf("got ts=%d payload=%q", ts, payload)
	}
}

func TestEntryCRCDetectsCorruption(t *testing.T) {
	enc := EncodeEntry(1, []byte("abc"))
	enc[9] ^= 0xff
	if _, _, err := DecodeEntry(enc); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
}

func TestEntryTooShort(t *testing.T) {
	if _, _, err := DecodeEntry([]byte{1, 2, 3}); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	in := meta{first: 3, last: 9, payloadBytes: 42}
	out, err := decodeMeta(encodeMeta(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestMetaCRCDetectsCorruption(t *testing.T) {
	enc := encodeMeta(meta{first: 1, last: 2, payloadBytes: 3})
	enc[0] ^= 0xff
	if _, err := decodeMeta(enc); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
}
