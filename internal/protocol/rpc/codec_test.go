package rpc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/snappy"

	"github.com/mothra-net/go-mothra/pkg/lib/wire"
)

func TestCodec_SmallPayloadNotCompressed(t *testing.T) {
	payload := []byte("short")
	data, compressed := encodePayload(payload, 1024)
	if compressed {
		t.Fatal("payload below threshold should not be compressed")
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload altered: %q", data)
	}

	frame := &wire.RPCFrame{Payload: data, Compressed: compressed}
	got, err := decodePayload(frame, 1024)
	if err != nil {
		t.Fatalf("decodePayload failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestCodec_LargePayloadCompressedRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("mothra "), 1024)
	data, compressed := encodePayload(payload, 1024)
	if !compressed {
		t.Fatal("payload above threshold should be compressed")
	}
	if len(data) >= len(payload) {
		t.Fatalf("repetitive payload did not shrink: %d >= %d", len(data), len(payload))
	}

	frame := &wire.RPCFrame{Payload: data, Compressed: compressed}
	got, err := decodePayload(frame, len(payload))
	if err != nil {
		t.Fatalf("decodePayload failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round trip mismatch")
	}
}

func TestCodec_DecodeEnforcesLimit(t *testing.T) {
	plain := &wire.RPCFrame{Payload: make([]byte, 100)}
	if _, err := decodePayload(plain, 99); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	// 压缩路径在分配前用声明长度预检
	big := snappy.Encode(nil, make([]byte, 4096))
	packed := &wire.RPCFrame{Payload: big, Compressed: true}
	if _, err := decodePayload(packed, 4095); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if _, err := decodePayload(packed, 4096); err != nil {
		t.Fatalf("limit equal to size should pass, got %v", err)
	}
}

func TestCodec_DecodeRejectsCorruptPayload(t *testing.T) {
	frame := &wire.RPCFrame{Payload: []byte{0xff, 0xfe, 0xfd}, Compressed: true}
	if _, err := decodePayload(frame, 1024); err == nil {
		t.Fatal("corrupt compressed payload should fail")
	}
}
