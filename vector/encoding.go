package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BlobSize is the byte length of a stored vec10k vector column.
const BlobSize = Dimension * 4

// EncodeEmbedding lays vec out as the vector column of vec10k: four bytes per
// component, little-endian, no header. A Dimension-long vector yields exactly
// BlobSize bytes, which the table's CHECK constraint enforces.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeEmbedding reads a vector column back. It does not check the
// dimension; rows written through Append always carry BlobSize bytes.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: blob of %d bytes is not a float32 array", len(b))
	}
	n := len(b) / 4
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
