package util

import (
	"github.com/fogleman/ease"
)

// RampLut generates a look-up table rising from 0 to 1 over length entries
// along an ease-in-out curve.
func RampLut(length int) []float64 {
	if length < 1 {
		return nil
	}

	lut := make([]float64, length)
	if length == 1 {
		lut[0] = 1.0
		return lut
	}

	increment := 1.0 / float64(length-1)
	for i := 0; i < length; i++ {
		lut[i] = ease.InOutQuad(float64(i) * increment)
	}
	return lut
}
