package adminauth

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/gittyapp/backend/internal/pkg/validate"
)

var (
	ErrForbidden   = errors.New("admin access required")
	ErrOTPRequired = errors.New("admin one-time code required")
	ErrInvalidOTP  = errors.New("invalid admin one-time code")
)

// Service decides whether a signed-in user may use the admin API. Admins are
// identified by phone; a configured TOTP secret adds a second factor.
type Service struct {
	phones     map[string]struct{}
	totpSecret string
	now        func() time.Time
}

func NewService(phones []string, totpSecret string) *Service {
	set := make(map[string]struct{}, len(phones))
	for _, raw := range phones {
		if phone := validate.Digits(raw); phone != "" {
			set[phone] = struct{}{}
		}
	}
	return &Service{
		phones:     set,
		totpSecret: strings.TrimSpace(totpSecret),
		now:        time.Now,
	}
}

func (s *Service) IsAdmin(phone string) bool {
	if s == nil {
		return false
	}
	_, ok := s.phones[validate.Digits(phone)]
	return ok
}

func (s *Service) RequiresOTP() bool {
	return s != nil && s.totpSecret != ""
}

// Authorize checks the caller's phone and, when required, the one-time code.
func (s *Service) Authorize(phone, code string) error {
	if !s.IsAdmin(phone) {
		return ErrForbidden
	}
	if !s.RequiresOTP() {
		return nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrOTPRequired
	}
	if !ValidateTOTP(s.totpSecret, code, s.now()) {
		return ErrInvalidOTP
	}
	return nil
}

// GenerateTOTPSecret creates a secret for the admin authenticator app.
func GenerateTOTPSecret(issuer, accountName string) (secret string, otpURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
		Digits:      otp.DigitsSix,
		Period:      30,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func ValidateTOTP(secret, code string, now time.Time) bool {
	if len(code) != 6 {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}
