package queue

import (
	"bytes"
	"testing"
)

func TestCommandRoundTrip(t *testing.T) {
	argv := [][]byte{[]byte("sh"), []byte("-c"), []byte("echo \"hi\"\x00\xff")}

	blob, err := encodeCommand(argv)
	if err != nil {
		t.Fatalf("encodeCommand failed: %v", err)
	}
	decoded, err := decodeCommand(blob)
	if err != nil {
		t.Fatalf("decodeCommand failed: %v", err)
	}
	if len(decoded) != len(argv) {
		t.Fatalf("expected %d elements, got %d", len(argv), len(decoded))
	}
	for i := range argv {
		if !bytes.Equal(decoded[i], argv[i]) {
			t.Fatalf("element %d: expected %q, got %q", i, argv[i], decoded[i])
		}
	}
}

func TestCommandNilArgvEncodesAsEmptyList(t *testing.T) {
	blob, err := encodeCommand(nil)
	if err != nil {
		t.Fatalf("encodeCommand failed: %v", err)
	}
	decoded, err := decodeCommand(blob)
	if err != nil {
		t.Fatalf("decodeCommand failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty argv, got %v", decoded)
	}
}

func TestCommandEmptyBlobDecodesToNil(t *testing.T) {
	decoded, err := decodeCommand(nil)
	if err != nil {
		t.Fatalf("decodeCommand failed: %v", err)
	}
	if decoded != nil {
		t.Fatalf("expected nil argv, got %v", decoded)
	}
}
