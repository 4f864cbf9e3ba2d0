package nbt

// decoder walks a byte buffer with a sticky error: the first failure pins
// the offset and every later read returns zero values.
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) failf(format string, args ...any) {
	if d.err == nil {
		d.err = dataErrf(d.data, d.off, nil, format, args...)
	}
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.remaining() < n {
		d.failf("truncated: need %d bytes, have %d", n, d.remaining())
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

// count reads a signed 32-bit element count and bounds it against the bytes
// actually left in the buffer, at minWidth bytes per element, so that a
// corrupted count cannot force a huge allocation.
func (d *decoder) count(minWidth int) int {
	n := int(int32(d.u32()))
	if d.err != nil {
		return 0
	}
	if n < 0 || (n > 0 && n*minWidth > d.remaining()) {
		d.failf("implausible element count %d", n)
		return 0
	}
	return n
}

func (d *decoder) payload(kind Kind) *Element {
	if d.err != nil {
		return nil
	}
	switch kind {
	case KindEnd:
		return newLeaf(KindEnd)
	case KindByte:
		return NewByte(int8(d.u8()))
	case KindShort:
		return NewShort(int16(d.u16()))
	case KindInt:
		return NewInt(int32(d.u32()))
	case KindLong:
		return NewLong(int64(d.u64()))
	case KindFloat:
		el := newLeaf(KindFloat)
		el.num = uint64(d.u32())
		return el
	case KindDouble:
		el := newLeaf(KindDouble)
		el.num = d.u64()
		return el
	case KindString:
		n := int(d.u16())
		b := d.take(n)
		if d.err != nil {
			return nil
		}
		return NewString(string(b))
	case KindByteArray:
		n := d.count(1)
		b := d.take(n)
		if d.err != nil {
			return nil
		}
		v := make([]int8, n)
		for i, c := range b {
			v[i] = int8(c)
		}
		return NewByteArray(v)
	case KindIntArray:
		n := d.count(4)
		v := make([]int32, n)
		for i := range v {
			v[i] = int32(d.u32())
		}
		if d.err != nil {
			return nil
		}
		return NewIntArray(v)
	case KindLongArray:
		n := d.count(8)
		v := make([]int64, n)
		for i := range v {
			v[i] = int64(d.u64())
		}
		if d.err != nil {
			return nil
		}
		return NewLongArray(v)
	case KindList:
		return d.list()
	case KindCompound:
		return d.compound()
	default:
		d.failf("unrecognized tag %d", uint8(kind))
		return nil
	}
}

func (d *decoder) list() *Element {
	elemKind := Kind(d.u8())
	n := d.count(1)
	if d.err != nil {
		return nil
	}
	if elemKind > maxTagKind || (n > 0 && elemKind == KindEnd) {
		d.failf("list declares element tag %d for %d elements", uint8(elemKind), n)
		return nil
	}
	el := NewList(elemKind)
	el.children = make([]*Element, 0, n)
	for i := 0; i < n; i++ {
		c := d.payload(elemKind)
		if d.err != nil {
			return nil
		}
		el.children = append(el.children, c)
		el.increment(1, c.TrueHeight())
	}
	return el
}

func (d *decoder) compound() *Element {
	el := NewCompound()
	for {
		kind := Kind(d.u8())
		if d.err != nil {
			return nil
		}
		if kind == KindEnd {
			return el
		}
		if kind > maxTagKind {
			d.failf("unrecognized tag %d", uint8(kind))
			return nil
		}
		n := int(d.u16())
		name := d.take(n)
		c := d.payload(kind)
		if d.err != nil {
			return nil
		}
		el.names = append(el.names, string(name))
		el.children = append(el.children, c)
		el.increment(1, c.TrueHeight())
	}
}

// DecodePayload decodes one tagged value: a tag byte followed by its payload.
func DecodePayload(data []byte) (*Element, error) {
	d := &decoder{data: data}
	el := d.payload(Kind(d.u8()))
	if d.err != nil {
		return nil, d.err
	}
	return el, nil
}

// DecodeDocument decodes an uncompressed standalone document: the outer
// compound tag with its name-length preamble, then the compound body.
func DecodeDocument(data []byte) (*Element, error) {
	d := &decoder{data: data}
	if kind := Kind(d.u8()); d.err == nil && kind != KindCompound {
		d.failf("document root tag %d is not a compound", uint8(kind))
	}
	nameLen := int(d.u16())
	d.take(nameLen)
	el := d.compound()
	if d.err != nil {
		return nil, d.err
	}
	return el, nil
}

// DecodeFile sniffs the compression envelope, unwraps it, and decodes the
// document. It reports the detected framing so that saving can reproduce it.
func DecodeFile(data []byte) (*Element, Compression, error) {
	c := SniffCompression(data)
	plain, err := c.Decompress(data)
	if err != nil {
		return nil, c, err
	}
	el, err := DecodeDocument(plain)
	if err != nil {
		return nil, c, err
	}
	return el, c, nil
}
