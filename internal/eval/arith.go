package eval

import "math"

const minInt64 = math.MinInt64

// AddChecked returns (a+b, ok). ok is false on signed overflow.
func AddChecked(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// SubChecked returns (a-b, ok). ok is false on signed overflow.
func SubChecked(a, b int64) (int64, bool) {
	if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
		return 0, false
	}
	return a - b, true
}

// MulChecked returns (a*b, ok). ok is false on signed overflow.
func MulChecked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	res := a * b
	if res/b != a {
		return 0, false
	}
	return res, true
}

// NegChecked returns (-a, ok); MinInt64 has no positive counterpart.
func NegChecked(a int64) (int64, bool) {
	if a == math.MinInt64 {
		return 0, false
	}
	return -a, true
}

// PowChecked computes base**exp by squaring. exp must be non-negative.
func PowChecked(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if result, ok = MulChecked(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = MulChecked(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}
