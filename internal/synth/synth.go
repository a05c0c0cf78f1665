// Package synth deterministically fills the reference fields for one run.
//
// The values are a pure function of indices: re-running synthesis with the
// same shape yields bit-identical buffers, which is what makes the
// validator's exact-equality comparison meaningful. Every value is chosen so
// that each (row, polarization, channel) triple maps to a distinct,
// recoverable element.
package synth

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/visbench/visbench/pkg/types"
)

// Reference bundles the three synthesized fields. It is owned by the
// harness driver and shared read-only with the strategy and validator for
// the lifetime of the run.
type Reference struct {
	Shape types.Shape
	Time  *types.TimeField
	Uvw   *types.UvwField
	Data  *types.DataField
}

// Synthesize fills the three fields for the given shape:
//
//	time[i]        = i
//	uvw[i][j]      = i + (j+1)*0.1
//	data[i][p][c]  = complex(c, p + (p+1)*0.1)
//
// The real part of a DATA element encodes the channel index and the
// imaginary part the polarization index.
func Synthesize(shape types.Shape) (*Reference, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	rows := shape.RowCount()
	pols := int(shape.Polarizations)
	chans := int(shape.Channels)

	timeVals := make([]float64, rows)
	for i := range timeVals {
		timeVals[i] = float64(i)
	}

	uvwVals := make([]float32, rows*types.UvwLen)
	for i := 0; i < rows; i++ {
		for j := 0; j < types.UvwLen; j++ {
			uvwVals[i*types.UvwLen+j] = float32(i) + float32(j+1)*0.1
		}
	}

	dataVals := make([]complex64, rows*pols*chans)
	for i := 0; i < rows; i++ {
		for p := 0; p < pols; p++ {
			imag := float32(p) + float32(p+1)*0.1
			base := (i*pols + p) * chans
			for c := 0; c < chans; c++ {
				dataVals[base+c] = complex(float32(c), imag)
			}
		}
	}

	timeField, err := types.NewField(types.KindTime, rows, nil, timeVals)
	if err != nil {
		return nil, err
	}
	uvwField, err := types.NewField(types.KindUvw, rows, []int{types.UvwLen}, uvwVals)
	if err != nil {
		return nil, err
	}
	dataField, err := types.NewField(types.KindData, rows, shape.DataRowShape(), dataVals)
	if err != nil {
		return nil, err
	}

	return &Reference{
		Shape: shape,
		Time:  timeField,
		Uvw:   uvwField,
		Data:  dataField,
	}, nil
}

// Checksum hashes the three reference buffers with murmur3. Two runs on the
// same shape report the same checksum, so reports can be compared knowing
// the inputs were identical.
func (r *Reference) Checksum() uint64 {
	h := murmur3.New64()
	var scratch [8]byte
	for _, v := range r.Time.Values() {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
		h.Write(scratch[:])
	}
	for _, v := range r.Uvw.Values() {
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v))
		h.Write(scratch[:4])
	}
	for _, v := range r.Data.Values() {
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(real(v)))
		binary.LittleEndian.PutUint32(scratch[4:], math.Float32bits(imag(v)))
		h.Write(scratch[:])
	}
	return h.Sum64()
}
