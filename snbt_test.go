package nbt

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		build    func() *Element
		expected string
	}{
		{func() *Element { return NewByte(-5) }, "-5b"},
		{func() *Element { return NewShort(300) }, "300s"},
		{func() *Element { return NewInt(7) }, "7"},
		{func() *Element { return NewLong(-9) }, "-9L"},
		{func() *Element { return NewFloat(1.5) }, "1.5f"},
		{func() *Element { return NewDouble(0.25) }, "0.25d"},
		{func() *Element { return NewString("plain_name") }, "plain_name"},
		{func() *Element { return NewString("two words") }, `"two words"`},
		{func() *Element { return NewString("") }, `""`},
		{func() *Element { return NewByteArray([]int8{1, -2}) }, "[B;1b,-2b]"},
		{func() *Element { return NewIntArray([]int32{3, 4}) }, "[I;3,4]"},
		{func() *Element { return NewLongArray([]int64{5}) }, "[L;5L]"},
		{func() *Element {
			l := NewList(KindInt)
			put(l, "", NewInt(1))
			put(l, "", NewInt(2))
			return l
		}, "[1,2]"},
		{func() *Element {
			c := NewCompound()
			put(c, "x", NewInt(5))
			put(c, "spaced key", NewByte(1))
			return c
		}, `{x:5,"spaced key":1b}`},
		{func() *Element {
			return NewChunk(put(NewCompound(), "id", NewInt(3)), 4, 9, 0, CompressionZlib)
		}, "4|9{id:3}"},
		{func() *Element {
			r := NewRegion()
			ensure(r.InsertChunk(0, NewChunk(NewCompound(), 0, 0, 0, CompressionZlib)))
			return r
		}, "1 chunk"},
		{func() *Element { return NewRegion() }, "0 chunks"},
	}
	for _, test := range tests {
		if s := test.build().String(); s != test.expected {
			t.Errorf("** String() = %q, wanted %q", s, test.expected)
		}
	}
}
