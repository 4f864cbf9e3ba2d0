package nbt

import "sync"

var encodeBufPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 65536)
	},
}

func takeEncodeBuf() []byte {
	return encodeBufPool.Get().([]byte)[:0]
}

func releaseEncodeBuf(b []byte) {
	encodeBufPool.Put(b[:0])
}
