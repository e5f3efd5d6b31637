// Package wechat implements the payment gateway port against the WeChat Pay
// v3 merchant API: JSAPI prepay orders, RSA-SHA256 request signing and
// notification verification, and AEAD decryption of notification payloads.
package wechat

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gluco/internal/application/payment/paymentgateway"
	"gluco/internal/shared/config"
	"gluco/internal/shared/logger"
)

const jsapiPrepayPath = "/v3/pay/transactions/jsapi"

// Client talks to the WeChat Pay v3 API and implements the gateway port.
type Client struct {
	cfg        config.WechatPayConfig
	privateKey *rsa.PrivateKey
	platformPK *rsa.PublicKey
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.WechatPayConfig, logger logger.Interface) (*Client, error) {
	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchant private key: %w", err)
	}
	platformPK, err := loadPlatformPublicKey(cfg.PlatformCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform certificate: %w", err)
	}

	return &Client{
		cfg:        cfg,
		privateKey: privateKey,
		platformPK: platformPK,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}, nil
}

type prepayRequest struct {
	AppID       string       `json:"appid"`
	MchID       string       `json:"mchid"`
	Description string       `json:"description"`
	OutTradeNo  string       `json:"out_trade_no"`
	NotifyURL   string       `json:"notify_url"`
	Amount      prepayAmount `json:"amount"`
	Payer       prepayPayer  `json:"payer"`
}

type prepayAmount struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}

type prepayPayer struct {
	OpenID string `json:"openid"`
}

type prepayResponse struct {
	PrepayID string `json:"prepay_id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Prepay creates a JSAPI prepay order and returns the signed parameters the
// client feeds to wx.requestPayment.
func (c *Client) Prepay(ctx context.Context, order paymentgateway.PrepayOrder) (*paymentgateway.PrepayParams, error) {
	body, err := json.Marshal(prepayRequest{
		AppID:       c.cfg.AppID,
		MchID:       c.cfg.MchID,
		Description: order.Description,
		OutTradeNo:  order.OutTradeNo,
		NotifyURL:   c.cfg.NotifyURL,
		Amount:      prepayAmount{Total: order.AmountTotal, Currency: "CNY"},
		Payer:       prepayPayer{OpenID: order.PayerID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prepay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBaseURL+jsapiPrepayPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build prepay request: %w", err)
	}

	auth, err := c.buildAuthorization(http.MethodPost, jsapiPrepayPath, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prepay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read prepay response: %w", err)
	}

	var pr prepayResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse prepay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || pr.PrepayID == "" {
		c.logger.Errorw("prepay rejected",
			"status", resp.StatusCode,
			"code", pr.Code,
			"message", pr.Message)
		return nil, fmt.Errorf("prepay rejected: status=%d code=%s message=%s",
			resp.StatusCode, pr.Code, pr.Message)
	}

	return c.signPrepayParams(pr.PrepayID)
}

// buildAuthorization signs the request per the v3 scheme: the signature
// covers "method\npath\ntimestamp\nnonce\nbody\n".
func (c *Client) buildAuthorization(method, path string, body []byte) (string, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	nonce, err := newNonce()
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n", method, path, timestamp, nonce, body)
	signature, err := c.sign([]byte(message))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		`WECHATPAY2-SHA256-RSA2048 mchid="%s",nonce_str="%s",signature="%s",timestamp="%s",serial_no="%s"`,
		c.cfg.MchID, nonce, signature, timestamp, c.cfg.CertSerialNo), nil
}

// signPrepayParams produces the client-side payment parameters. The paySign
// covers "appid\ntimestamp\nnonce\npackage\n".
func (c *Client) signPrepayParams(prepayID string) (*paymentgateway.PrepayParams, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	pkg := "prepay_id=" + prepayID

	message := fmt.Sprintf("%s\n%s\n%s\n%s\n", c.cfg.AppID, timestamp, nonce, pkg)
	paySign, err := c.sign([]byte(message))
	if err != nil {
		return nil, err
	}

	return &paymentgateway.PrepayParams{
		AppID:     c.cfg.AppID,
		TimeStamp: timestamp,
		NonceStr:  nonce,
		Package:   pkg,
		SignType:  "RSA",
		PaySign:   paySign,
	}, nil
}

func (c *Client) sign(message []byte) (string, error) {
	digest := sha256.Sum256(message)
	signature, err := rsa.SignPKCS1v15(rand.Reader, c.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
