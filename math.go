package fireplace

import (
	"golang.org/x/exp/constraints"
)

// Number is a type that can be used in math functions.
type Number interface {
	constraints.Float | constraints.Integer
}

// Sum returns the sum of the numbers.
func Sum[T Number](nums ...T) T {
	var sum T
	for _, v := range nums {
		sum += v
	}
	return sum
}

// AbsDiff returns the absolute difference between x and y.
func AbsDiff[T constraints.Signed | constraints.Float](x, y T) T {
	v := x - y
	if v < 0 {
		v = -v
	}
	return v
}

// GCD returns the greatest common divisor of a and b.
func GCD[T constraints.Integer](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		a = -a
	}
	return a
}

// LCM returns the least common multiple of the integers. It is 0 when no
// integers are given or any of them is 0.
func LCM[T constraints.Integer](integers ...T) T {
	if len(integers) == 0 {
		return 0
	}
	result := integers[0]
	for _, v := range integers[1:] {
		if result == 0 || v == 0 {
			return 0
		}
		result = result / GCD(result, v) * v
	}
	if result < 0 {
		result = -result
	}
	return result
}
