package nbt

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	regionSlots      = 1024
	sectorSize       = 4096
	regionHeaderSize = 2 * sectorSize

	// header records below this value mark an absent slot: the payload of a
	// present slot can start no earlier than sector 2.
	minSlotRecord = 512

	// maximum sectors one slot record can address (8-bit count field)
	maxSlotSectors = 255
)

// DecodeRegion decodes a region file: an 8192-byte header of 1024 offset
// records and 1024 timestamps, then 4096-byte sectors. Slots decode
// independently, one task each; a malformed slot is rejected alone and
// leaves its position empty. Only a buffer too short for the header fails
// the whole decode.
func DecodeRegion(data []byte) (*Element, error) {
	if len(data) < regionHeaderSize {
		return nil, dataErrf(data, 0, nil, "region shorter than the %d-byte header", regionHeaderSize)
	}
	offsets := data[:sectorSize]
	timestamps := data[sectorSize:regionHeaderSize]
	body := data[regionHeaderSize:]

	chunks := make([]*Element, regionSlots)
	var g errgroup.Group
	for pos := 0; pos < regionSlots; pos++ {
		record := binary.BigEndian.Uint32(offsets[pos*4:])
		timestamp := binary.BigEndian.Uint32(timestamps[pos*4:])
		if record < minSlotRecord {
			continue
		}
		pos := pos
		g.Go(func() error {
			// Slot failures reject the slot, not the region; each task
			// writes only its own index.
			if chunk, err := decodeSlot(body, record, timestamp, pos); err == nil {
				chunks[pos] = chunk
			}
			return nil
		})
	}
	ensure(g.Wait())

	region := NewRegion()
	for pos, chunk := range chunks {
		if chunk == nil {
			continue
		}
		region.posMap = append(region.posMap, uint16(pos))
		region.children[pos] = chunk
		region.increment(chunk.Height(), chunk.TrueHeight())
	}
	return region, nil
}

func decodeSlot(body []byte, record, timestamp uint32, pos int) (*Element, error) {
	start := (int(record>>8) - 2) * sectorSize
	length := int(record&0xFF) * sectorSize
	if start < 0 || start+length > len(body) {
		return nil, dataErrf(nil, start, nil, "slot %d outside the file", pos)
	}
	raw := body[start : start+length]
	if len(raw) < 5 {
		return nil, dataErrf(raw, 0, nil, "slot %d sector too short", pos)
	}
	byteLen := binary.BigEndian.Uint32(raw)
	if byteLen == 0 || int(byteLen-1) > len(raw)-5 {
		return nil, dataErrf(raw, 0, nil, "slot %d declares %d payload bytes", pos, byteLen)
	}
	format := Compression(raw[4])
	if !format.valid() {
		return nil, dataErrf(raw, 4, nil, "slot %d has unsupported compression %d", pos, raw[4])
	}
	plain, err := format.Decompress(raw[5 : 5+byteLen-1])
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(plain)
	if err != nil {
		return nil, err
	}
	return NewChunk(doc, uint8(pos>>5)&31, uint8(pos)&31, timestamp, format), nil
}

// EncodeRegion encodes a region back to the sector format. Slots encode
// independently, one task each; offsets are then assigned by a single
// running sector cursor in slot order, which compacts the file. A
// re-encoded region is equivalent to, not byte-identical with, its source.
func (el *Element) EncodeRegion() ([]byte, error) {
	if el.kind != KindRegion {
		return nil, fmt.Errorf("nbt: cannot encode %v as a region", el.kind)
	}

	payloads := make([][]byte, regionSlots)
	var g errgroup.Group
	for pos, chunk := range el.children {
		if chunk == nil {
			continue
		}
		pos, chunk := pos, chunk
		g.Go(func() error {
			p, err := encodeSlot(chunk)
			if err != nil {
				return fmt.Errorf("slot %d: %w", pos, err)
			}
			payloads[pos] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, p := range payloads {
		total += len(p)
	}
	out := make([]byte, regionHeaderSize, regionHeaderSize+total)
	cursor := uint32(2)
	for pos, p := range payloads {
		if len(p) == 0 {
			continue
		}
		sectors := uint32(len(p) / sectorSize)
		binary.BigEndian.PutUint32(out[pos*4:], cursor<<8|sectors)
		binary.BigEndian.PutUint32(out[sectorSize+pos*4:], el.children[pos].lastMod)
		cursor += sectors
		out = append(out, p...)
	}
	return out, nil
}

// encodeSlot returns the chunk's sector image: 4-byte length (compression
// byte included), compression discriminant, compressed document, zero
// padding to a sector boundary.
func encodeSlot(chunk *Element) ([]byte, error) {
	buf := chunk.AppendDocument(takeEncodeBuf())
	enc, err := chunk.format.Compress(buf)
	releaseEncodeBuf(buf)
	if err != nil {
		return nil, err
	}
	total := 4 + 1 + len(enc)
	if ceilDiv(total, sectorSize) > maxSlotSectors {
		return nil, fmt.Errorf("chunk spans %d sectors, limit %d", ceilDiv(total, sectorSize), maxSlotSectors)
	}
	out := make([]byte, 0, ceilDiv(total, sectorSize)*sectorSize)
	out = appendUint32(out, uint32(len(enc)+1))
	out = appendUint8(out, uint8(chunk.format))
	out = appendRaw(out, enc)
	return appendZeros(out, ceilDiv(total, sectorSize)*sectorSize-total), nil
}
