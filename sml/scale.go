package sml

import "golang.org/x/exp/constraints"

func scale[V constraints.Integer](v V, scaler int8) float64 {
	f := float64(v)

	for scaler < 0 {
		f /= 10
		scaler++
	}

	for scaler > 0 {
		f *= 10
		scaler--
	}

	return f
}
