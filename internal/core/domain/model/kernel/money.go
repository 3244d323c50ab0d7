package kernel

import "strconv"

// Money is an amount in minor currency units. Settlement arithmetic never uses floats.
type Money int64

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// MinMoney returns the smaller amount.
func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}
