// Package mathutil holds the fixed-point arithmetic and 2D/3x3 matrix math
// shared by the layer and sprite renderers: scaling steps are computed in
// fixed-point, while affine layers apply a float64 Matrix3 to each
// destination pixel.
package mathutil

// FixedBits is the number of fractional bits used by Fixed. Documented here
// per the requirement that fixed-point shift width never be a magic number
// scattered across call sites.
const FixedBits = 16

// Fixed is a FixedBits.FixedBits signed fixed-point number.
type Fixed int32

// FromFloat converts a float64 to fixed-point, rounding toward zero the way
// the reference implementation's float2fix truncates.
func FromFloat(f float64) Fixed {
	return Fixed(f * float64(int32(1)<<FixedBits))
}

// ToFloat converts back to float64.
func (f Fixed) ToFloat() float64 {
	return float64(f) / float64(int32(1)<<FixedBits)
}

// ToInt truncates the fractional part.
func (f Fixed) ToInt() int {
	return int(f >> FixedBits)
}

// FromInt promotes an integer to fixed-point with a zero fraction.
func FromInt(i int) Fixed {
	return Fixed(i << FixedBits)
}

// Mul multiplies two fixed-point values, widening to int64 to avoid
// overflow in the intermediate product.
func (f Fixed) Mul(g Fixed) Fixed {
	return Fixed((int64(f) * int64(g)) >> FixedBits)
}

// Div divides two fixed-point values.
func (f Fixed) Div(g Fixed) Fixed {
	if g == 0 {
		return 0
	}
	return Fixed((int64(f) << FixedBits) / int64(g))
}
