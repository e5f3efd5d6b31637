package valueobjects

import "fmt"

// Money is an amount in minor currency units (fen for CNY). All ledger and
// quote arithmetic happens in minor units; conversion to yuan is for display
// only.
type Money struct {
	amountInFen int64
	currency    string
}

func NewMoney(amountInFen int64, currency string) Money {
	if currency == "" {
		currency = "CNY"
	}
	return Money{
		amountInFen: amountInFen,
		currency:    currency,
	}
}

// ZeroMoney returns a zero CNY amount.
func ZeroMoney() Money {
	return NewMoney(0, "CNY")
}

func (m Money) AmountInFen() int64 {
	return m.amountInFen
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) AmountInYuan() float64 {
	return float64(m.amountInFen) / 100.0
}

// Sub returns m minus other, floored at zero. Used for quote computation
// where credit can never push a payment below zero.
func (m Money) Sub(other Money) Money {
	diff := m.amountInFen - other.amountInFen
	if diff < 0 {
		diff = 0
	}
	return Money{amountInFen: diff, currency: m.currency}
}

// Equals compares amount and currency exactly. Payment verification relies
// on exact equality; there is deliberately no tolerance.
func (m Money) Equals(other Money) bool {
	return m.amountInFen == other.amountInFen && m.currency == other.currency
}

func (m Money) IsZero() bool {
	return m.amountInFen == 0
}

func (m Money) IsPositive() bool {
	return m.amountInFen > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.AmountInYuan(), m.currency)
}
