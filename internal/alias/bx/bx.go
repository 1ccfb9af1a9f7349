// Package bx holds small byte/int conversion helpers shared by the storage,
// record and rm packages. Everything is little-endian.
package bx

import (
	"encoding/binary"
	"math"
)

var LE = binary.LittleEndian

func I32(b []byte) int32       { return int32(LE.Uint32(b)) }
func PutI32(b []byte, v int32) { LE.PutUint32(b, uint32(v)) }

func U32(b []byte) uint32       { return LE.Uint32(b) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

func F32(b []byte) float32 {
	return math.Float32frombits(LE.Uint32(b))
}

func PutF32(b []byte, v float32) {
	LE.PutUint32(b, math.Float32bits(v))
}
