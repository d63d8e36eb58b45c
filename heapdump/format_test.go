/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heapdump

import (
	"bytes"
	"testing"

	"classvm/addr"
	"classvm/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	classes := []ClassMeta{
		{ID: 1, Name: "java/lang/Object", InstanceSize: 0},
		{ID: 2, Name: "[I", IsArray: true, ElementType: types.Int},
	}
	blocks := []Block{
		{Start: addr.Address(0x1000), Bytes: []byte{1, 2, 3, 4}},
		{Start: addr.Address(0x2000), Bytes: []byte{5, 6}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, classes, blocks); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	dump, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(dump.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(dump.Classes))
	}
	if got := dump.Classes[2]; !got.IsArray || got.ElementType != types.Int {
		t.Fatalf("array class metadata not round-tripped: %+v", got)
	}
	if len(dump.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(dump.Blocks))
	}
	if dump.Blocks[0].Start != addr.Address(0x1000) || !bytes.Equal(dump.Blocks[0].Bytes, []byte{1, 2, 3, 4}) {
		t.Fatalf("block 0 not round-tripped: %+v", dump.Blocks[0])
	}
	if dump.Blocks[1].Start != addr.Address(0x2000) || !bytes.Equal(dump.Blocks[1].Bytes, []byte{5, 6}) {
		t.Fatalf("block 1 not round-tripped: %+v", dump.Blocks[1])
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("nope")))
	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
}
