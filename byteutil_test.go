package nbt

import (
	"bytes"
	"testing"
)

func TestAppendHelpers(t *testing.T) {
	buf := appendRaw(nil, []byte{0xAA, 0xBB, 0xCC})
	if !bytes.Equal(buf, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("appendRaw = %x", buf)
	}

	buf = appendUint64(buf[:0], 0x0102030405060708)
	if !bytes.Equal(buf, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("appendUint64 = %x", buf)
	}
	buf = appendUint32(nil, 0xAABBCCDD)
	if !bytes.Equal(buf, []byte{0xAA, 0xBB, 0xCC, 0xDD}) {
		t.Fatalf("appendUint32 = %x", buf)
	}
	buf = appendUint16(nil, 0x0102)
	if !bytes.Equal(buf, []byte{1, 2}) {
		t.Fatalf("appendUint16 = %x", buf)
	}
	buf = appendUint8(buf, 3)
	if !bytes.Equal(buf, []byte{1, 2, 3}) {
		t.Fatalf("appendUint8 = %x", buf)
	}

	buf = appendString([]byte{1}, "hi")
	if !bytes.Equal(buf, []byte{1, 'h', 'i'}) {
		t.Fatalf("appendString = %x", buf)
	}

	buf = appendZeros([]byte{0xFF}, 3)
	if !bytes.Equal(buf, []byte{0xFF, 0, 0, 0}) {
		t.Fatalf("appendZeros = %x", buf)
	}
}

func TestGrow(t *testing.T) {
	buf := make([]byte, 0, 4)
	off, buf := grow(buf, 10)
	if off != 0 || len(buf) != 10 || cap(buf) < 10 {
		t.Fatalf("grow = (%d, len %d cap %d)", off, len(buf), cap(buf))
	}
	buf[0] = 0xAA
	off, buf = grow(buf, 2)
	if off != 10 || len(buf) != 12 || buf[0] != 0xAA {
		t.Fatalf("second grow = (%d, len %d), buf[0]=%x", off, len(buf), buf[0])
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ n, d, want int }{
		{0, 4096, 0},
		{1, 4096, 1},
		{4096, 4096, 1},
		{4097, 4096, 2},
	}
	for _, test := range tests {
		if got := ceilDiv(test.n, test.d); got != test.want {
			t.Errorf("ceilDiv(%d, %d) = %d, wanted %d", test.n, test.d, got, test.want)
		}
	}
}
