package valueobjects

// PaymentStatus is the outcome reported by the gateway for a transaction.
// Failed can still become success when the gateway later redelivers the
// same transaction as settled; success and linkage never revert.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

func (s PaymentStatus) IsSuccess() bool {
	return s == PaymentStatusSuccess
}
