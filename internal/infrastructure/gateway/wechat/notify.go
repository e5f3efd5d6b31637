package wechat

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gluco/internal/application/payment/paymentgateway"
)

const (
	headerTimestamp = "Wechatpay-Timestamp"
	headerNonce     = "Wechatpay-Nonce"
	headerSignature = "Wechatpay-Signature"

	// maxTimestampSkew rejects replayed notifications with stale timestamps.
	maxTimestampSkew = 5 * time.Minute
)

// VerifyNotification checks the platform signature over an inbound webhook.
// The signed message is "timestamp\nnonce\nbody\n".
func (c *Client) VerifyNotification(headers http.Header, body []byte) error {
	timestamp := headers.Get(headerTimestamp)
	nonce := headers.Get(headerNonce)
	signature := headers.Get(headerSignature)
	if timestamp == "" || nonce == "" || signature == "" {
		return fmt.Errorf("missing signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp header: %w", err)
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > maxTimestampSkew {
		return fmt.Errorf("notification timestamp outside acceptable window")
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}

	message := fmt.Sprintf("%s\n%s\n%s\n", timestamp, nonce, body)
	digest := sha256.Sum256([]byte(message))
	if err := rsa.VerifyPKCS1v15(c.platformPK, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}

// transactionPayload is the decrypted resource of a payment notification.
type transactionPayload struct {
	TransactionID string `json:"transaction_id"`
	OutTradeNo    string `json:"out_trade_no"`
	TradeState    string `json:"trade_state"`
	Amount        struct {
		Total int64 `json:"total"`
	} `json:"amount"`
	Payer struct {
		OpenID string `json:"openid"`
	} `json:"payer"`
}

const resourceAlgorithm = "AEAD_AES_256_GCM"

// DecryptResource opens the AEAD_AES_256_GCM envelope using the APIv3 key.
func (c *Client) DecryptResource(res paymentgateway.EncryptedResource) (*paymentgateway.TransactionResult, error) {
	if res.Algorithm != resourceAlgorithm {
		return nil, fmt.Errorf("unsupported resource algorithm %q", res.Algorithm)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(res.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	block, err := aes.NewCipher([]byte(c.cfg.APIv3Key))
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, []byte(res.Nonce), ciphertext, []byte(res.AssociatedData))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt resource: %w", err)
	}

	var payload transactionPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted resource: %w", err)
	}

	return &paymentgateway.TransactionResult{
		TransactionID: payload.TransactionID,
		OutTradeNo:    payload.OutTradeNo,
		TradeState:    payload.TradeState,
		AmountTotal:   payload.Amount.Total,
		PayerID:       payload.Payer.OpenID,
	}, nil
}
