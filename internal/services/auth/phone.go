package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/gittyapp/backend/internal/pkg/validate"
)

const credentialInfo = "gitty phone credential v1"

// NormalizePhone keeps the digits of a Korean mobile number.
func NormalizePhone(raw string) (string, error) {
	phone := validate.Digits(raw)
	if !validate.InRange(len(phone), 10, 11) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

type CodeVerifier interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// StaticVerifier accepts one configured code for every phone. It backs the
// dev flow until an SMS provider is connected.
type StaticVerifier struct {
	code string
}

func NewStaticVerifier(code string) *StaticVerifier {
	return &StaticVerifier{code: strings.TrimSpace(code)}
}

func (v *StaticVerifier) Send(context.Context, string) error {
	return nil
}

func (v *StaticVerifier) Verify(_ context.Context, _ string, code string) error {
	code = strings.TrimSpace(code)
	if v.code == "" || code == "" {
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(v.code)) != 1 {
		return ErrInvalidCode
	}
	return nil
}

// Credentials derives the hosted-auth email/password pair for a phone.
type Credentials struct {
	domain string
	key    []byte
}

func NewCredentials(secret, domain string) (*Credentials, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("credential secret is empty")
	}
	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	if domain == "" {
		return nil, fmt.Errorf("credential email domain is empty")
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(credentialInfo)), key); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	return &Credentials{domain: domain, key: key}, nil
}

func (c *Credentials) Email(phone string) string {
	return phone + "@" + c.domain
}

func (c *Credentials) Password(phone string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(phone))
	return hex.EncodeToString(mac.Sum(nil))
}
