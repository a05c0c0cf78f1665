package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cell blobs are little-endian packed element arrays. The encodings are
// bit-exact round trips, which the validator's exact-equality comparison
// depends on.

func encodeFloat32s(vals []float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

func decodeFloat32s(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("float32 blob length %d is not a multiple of 4", len(b))
	}
	vals := make([]float32, len(b)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return vals, nil
}

func encodeComplex64s(vals []complex64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[8*i:], math.Float32bits(real(v)))
		binary.LittleEndian.PutUint32(b[8*i+4:], math.Float32bits(imag(v)))
	}
	return b
}

func decodeComplex64s(b []byte) ([]complex64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("complex64 blob length %d is not a multiple of 8", len(b))
	}
	vals := make([]complex64, len(b)/8)
	for i := range vals {
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[8*i:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[8*i+4:]))
		vals[i] = complex(re, im)
	}
	return vals, nil
}
