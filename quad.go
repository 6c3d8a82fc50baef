package tdms

import "math/big"

// parseQuadLittleEndian decodes a 16-byte IEEE-754 binary128 value stored in
// little-endian byte order into a [*big.Float]. Go's math/big has no native
// quad-precision type, so this extracts sign, exponent and mantissa by hand
// the way any quad-precision software decoder does.
func parseQuadLittleEndian(data []byte) *big.Float {
	be := make([]byte, 16)
	for i, b := range data {
		be[15-i] = b
	}

	sign := (be[0] >> 7) & 1
	exponent := uint16(be[0]&0x7F) << 8
	exponent |= uint16(be[1])

	mantissaBits := make([]byte, 14)
	copy(mantissaBits, be[2:16])

	result := new(big.Float).SetPrec(113)

	if exponent == 0x7FFF {
		if isZeroMantissa(mantissaBits) {
			result.SetInf(sign == 1)
			return result
		}
		// NaN has no canonical big.Float representation; callers that care
		// about NaN should check IsNaN on the source bytes directly.
		return result.SetNaN()
	}

	shiftAmount := new(big.Int).Lsh(big.NewInt(1), 112)

	if exponent == 0 {
		if isZeroMantissa(mantissaBits) {
			return result.SetInt64(0)
		}

		mantissaValue := mantissaToBigInt(mantissaBits)
		mantissaFloat := new(big.Float).SetInt(mantissaValue)
		mantissaFloat.Quo(mantissaFloat, new(big.Float).SetInt(shiftAmount))

		power := new(big.Float).SetMantExp(big.NewFloat(1), -16382)
		result.Mul(mantissaFloat, power)

		if sign == 1 {
			result.Neg(result)
		}
		return result
	}

	exponentValue := int(exponent) - 16383
	mantissaValue := mantissaToBigInt(mantissaBits)

	mantissaFloat := new(big.Float).SetInt(mantissaValue)
	mantissaFloat.Quo(mantissaFloat, new(big.Float).SetInt(shiftAmount))
	mantissaFloat.Add(mantissaFloat, big.NewFloat(1))

	power := new(big.Float).SetMantExp(big.NewFloat(1), exponentValue)
	result.Mul(mantissaFloat, power)

	if sign == 1 {
		result.Neg(result)
	}

	return result
}

// IsNaN reports whether f's bit pattern is a quad-precision NaN.
func (f Float128) IsNaN() bool {
	be := make([]byte, 16)
	for i, b := range f {
		be[15-i] = b
	}
	exponent := uint16(be[0]&0x7F)<<8 | uint16(be[1])
	return exponent == 0x7FFF && !isZeroMantissa(be[2:16])
}

func isZeroMantissa(mantissaBits []byte) bool {
	for _, b := range mantissaBits {
		if b != 0 {
			return false
		}
	}
	return true
}

func mantissaToBigInt(mantissaBits []byte) *big.Int {
	result := new(big.Int)
	for _, b := range mantissaBits {
		result.Lsh(result, 8)
		result.Or(result, big.NewInt(int64(b)))
	}
	return result
}
