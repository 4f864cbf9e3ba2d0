package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders el in SNBT-like text form: suffixed numerics, quoted
// strings where needed, [B;…]/[I;…]/[L;…] arrays, bracketed lists and
// braced compounds. Regions render as a chunk count, chunks as "x|z{…}".
func (el *Element) String() string {
	var b strings.Builder
	el.writeSNBT(&b)
	return b.String()
}

func (el *Element) writeSNBT(b *strings.Builder) {
	switch el.kind {
	case KindEnd:
		b.WriteString("null")
	case KindByte:
		b.WriteString(strconv.FormatInt(int64(el.Byte()), 10))
		b.WriteByte('b')
	case KindShort:
		b.WriteString(strconv.FormatInt(int64(el.Short()), 10))
		b.WriteByte('s')
	case KindInt:
		b.WriteString(strconv.FormatInt(int64(el.Int()), 10))
	case KindLong:
		b.WriteString(strconv.FormatInt(el.Long(), 10))
		b.WriteByte('L')
	case KindFloat:
		b.WriteString(strconv.FormatFloat(float64(el.Float()), 'g', -1, 32))
		b.WriteByte('f')
	case KindDouble:
		b.WriteString(strconv.FormatFloat(el.Double(), 'g', -1, 64))
		b.WriteByte('d')
	case KindString:
		writeSNBTKey(b, el.str)
	case KindByteArray:
		b.WriteString("[B;")
		for i, v := range el.bytes {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(v), 10))
			b.WriteByte('b')
		}
		b.WriteByte(']')
	case KindIntArray:
		b.WriteString("[I;")
		for i, v := range el.ints {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
		b.WriteByte(']')
	case KindLongArray:
		b.WriteString("[L;")
		for i, v := range el.longs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(v, 10))
			b.WriteByte('L')
		}
		b.WriteByte(']')
	case KindList:
		b.WriteByte('[')
		for i, c := range el.children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.writeSNBT(b)
		}
		b.WriteByte(']')
	case KindCompound:
		el.writeSNBTBody(b)
	case KindChunk:
		fmt.Fprintf(b, "%d|%d", el.x, el.z)
		el.writeSNBTBody(b)
	case KindRegion:
		if n := el.Len(); n == 1 {
			b.WriteString("1 chunk")
		} else {
			fmt.Fprintf(b, "%d chunks", n)
		}
	}
}

func (el *Element) writeSNBTBody(b *strings.Builder) {
	b.WriteByte('{')
	for i, c := range el.children {
		if i > 0 {
			b.WriteByte(',')
		}
		writeSNBTKey(b, el.names[i])
		b.WriteByte(':')
		c.writeSNBT(b)
	}
	b.WriteByte('}')
}

func writeSNBTKey(b *strings.Builder, s string) {
	if snbtNeedsQuotes(s) {
		b.WriteString(strconv.Quote(s))
	} else {
		b.WriteString(s)
	}
}

func snbtNeedsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == '+':
		default:
			return true
		}
	}
	return false
}
