package a11y

import "math"

// Embedding quantization scale. Components in [-1, 1] map to signed 8-bit
// integers in [-127, 127], a fixed 4x compression over float32 with at most
// 1/254 absolute error per component.
const embeddingScale = 127

// CompressEmbedding quantizes an embedding vector to one signed byte per
// component. Components outside [-1, 1] are clamped.
func CompressEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	out := make([]byte, len(vec))
	for i, v := range vec {
		f := math.Round(float64(v) * embeddingScale)
		if f > embeddingScale {
			f = embeddingScale
		} else if f < -embeddingScale {
			f = -embeddingScale
		}
		out[i] = byte(int8(f))
	}
	return out
}

// DecompressEmbedding restores a quantized embedding to float32 components.
func DecompressEmbedding(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	out := make([]float32, len(data))
	for i, b := range data {
		out[i] = float32(int8(b)) / embeddingScale
	}
	return out
}

// CosineSimilarity computes dot(a,b)/(|a||b|). It returns 0 if either
// vector has zero magnitude or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
