package nbt

import "fmt"

// AppendPayload appends el's wire payload to buf: everything after the tag
// byte. Numerics are fixed-width big-endian; strings and arrays are
// length-prefixed; list entries share one declared tag; compound entries are
// name-prefixed and terminated by an end marker.
func (el *Element) AppendPayload(buf []byte) []byte {
	switch el.kind {
	case KindEnd:
		return buf
	case KindByte:
		return appendUint8(buf, uint8(el.num))
	case KindShort:
		return appendUint16(buf, uint16(el.num))
	case KindInt, KindFloat:
		return appendUint32(buf, uint32(el.num))
	case KindLong, KindDouble:
		return appendUint64(buf, el.num)
	case KindString:
		buf = appendUint16(buf, uint16(len(el.str)))
		return appendString(buf, el.str)
	case KindByteArray:
		buf = appendUint32(buf, uint32(len(el.bytes)))
		for _, v := range el.bytes {
			buf = appendUint8(buf, uint8(v))
		}
		return buf
	case KindIntArray:
		buf = appendUint32(buf, uint32(len(el.ints)))
		for _, v := range el.ints {
			buf = appendUint32(buf, uint32(v))
		}
		return buf
	case KindLongArray:
		buf = appendUint32(buf, uint32(len(el.longs)))
		for _, v := range el.longs {
			buf = appendUint64(buf, uint64(v))
		}
		return buf
	case KindList:
		buf = appendUint8(buf, uint8(el.elemKind))
		buf = appendUint32(buf, uint32(len(el.children)))
		for _, c := range el.children {
			buf = c.AppendPayload(buf)
		}
		return buf
	case KindCompound, KindChunk:
		for i, c := range el.children {
			buf = appendUint8(buf, uint8(c.kind))
			buf = appendUint16(buf, uint16(len(el.names[i])))
			buf = appendString(buf, el.names[i])
			buf = c.AppendPayload(buf)
		}
		return appendUint8(buf, uint8(KindEnd))
	default:
		panic(fmt.Errorf("nbt: %v has no tag payload", el.kind))
	}
}

// AppendDocument appends the standalone document form of a compound-rooted
// element: the fixed 0x0A 0x00 0x00 preamble followed by the compound body.
func (el *Element) AppendDocument(buf []byte) []byte {
	if el.kind != KindCompound && el.kind != KindChunk {
		panic(fmt.Errorf("nbt: document root must be a compound, got %v", el.kind))
	}
	buf = appendUint8(buf, uint8(KindCompound))
	buf = appendUint16(buf, 0)
	return el.AppendPayload(buf)
}

// EncodeDocument returns the uncompressed standalone document bytes.
func (el *Element) EncodeDocument() []byte {
	return el.AppendDocument(nil)
}

// EncodeFile returns the document wrapped in the given compression envelope.
func (el *Element) EncodeFile(c Compression) ([]byte, error) {
	buf := el.AppendDocument(takeEncodeBuf())
	out, err := c.Compress(buf)
	releaseEncodeBuf(buf)
	return out, err
}
