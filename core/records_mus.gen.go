// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicecxQNTNl5ΔEu0oiSAXBQduQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += varint.Int.Marshal(v.Segment, bs[n:])
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += slicecxQNTNl5ΔEu0oiSAXBQduQΞΞ.Marshal(v.Vector, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Segment, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicecxQNTNl5ΔEu0oiSAXBQduQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Source)
	size += varint.Int.Size(v.Segment)
	size += varint.Int.Size(v.Ordinal)
	size += ord.String.Size(v.Content)
	size += slicecxQNTNl5ΔEu0oiSAXBQduQΞΞ.Size(v.Vector)
	return size + raw.TimeUnixMicro.Size(v.InsertedAt)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicecxQNTNl5ΔEu0oiSAXBQduQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
