// Package paymentgateway defines the port to the external mobile-payment
// gateway. The concrete WeChat Pay v3 adapter lives in infrastructure.
package paymentgateway

import (
	"context"
	"net/http"
)

// TradeStateSuccess is the gateway's terminal success state for a
// transaction.
const TradeStateSuccess = "SUCCESS"

// PrepayOrder is the outbound request for payment authorization parameters.
type PrepayOrder struct {
	OutTradeNo  string
	Description string
	AmountTotal int64 // minor units
	PayerID     string
}

// PrepayParams are the opaque client-side authorization parameters returned
// by the gateway (fed to wx.requestPayment on-device).
type PrepayParams struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// EncryptedResource is the AEAD envelope carried by a payment notification.
type EncryptedResource struct {
	Algorithm      string `json:"algorithm"`
	Nonce          string `json:"nonce"`
	Ciphertext     string `json:"ciphertext"`
	AssociatedData string `json:"associated_data"`
}

// TransactionResult is the decrypted payload of a payment notification.
type TransactionResult struct {
	TransactionID string
	OutTradeNo    string
	TradeState    string
	AmountTotal   int64 // minor units
	PayerID       string
}

// Gateway is the payment gateway port.
type Gateway interface {
	// Prepay obtains client payment authorization parameters for an order.
	Prepay(ctx context.Context, order PrepayOrder) (*PrepayParams, error)

	// VerifyNotification checks the provider signature over an inbound
	// webhook. It must be called before the body is trusted in any way.
	VerifyNotification(headers http.Header, body []byte) error

	// DecryptResource opens the AEAD envelope of a verified notification.
	DecryptResource(res EncryptedResource) (*TransactionResult, error)
}
