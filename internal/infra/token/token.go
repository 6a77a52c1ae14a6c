// Package token はアクセストークン（JWT HS256）の発行と検証を行う。
// 発行（ログイン/登録）と検証（AuthJWTミドルウェア）で同じServiceを共有し、
// シークレットはconfigから1か所でだけ渡す。
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "storefront"

// 検証失敗の理由。外には出さずログにだけ残す
var (
	ErrMissingToken     = errors.New("token: missing")
	ErrMalformedToken   = errors.New("token: malformed")
	ErrExpiredToken     = errors.New("token: expired")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrInvalidToken     = errors.New("token: invalid")
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// JWTのペイロード
type claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Claimsは検証済みトークンの中身。Rolesは正規化済み
type Claims struct {
	UserID    string
	Email     string
	Roles     model.Roles
	IssuedAt  time.Time
	ExpiresAt time.Time
	// 正規化で捨てたロール（ログ用）
	Unrecognized []string
}

type Service struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

// NewServiceはシークレットと有効期限からServiceを作る。clockがnilなら現在時刻を使う
func NewService(secret string, ttl time.Duration, clock Clock) (*Service, error) {
	if len(secret) < 16 {
		return nil, errors.New("token: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issueはユーザーのアクセストークンを署名して返す
func (s *Service) Issue(userID string, email string, roles model.Roles) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("token: subject is required")
	}
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	c := claims{
		Email: email,
		Roles: model.NormalizeRoles(roles.Strings()).Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: signing: %w", err)
	}
	return signed, expiresAt, nil
}

// Verifyは署名・期限・発行者・アルゴリズムを確認してClaimsを返す
func (s *Service) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrMissingToken
	}

	tok, err := jwt.ParseWithClaims(
		raw,
		&claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Claims{}, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	out := Claims{
		UserID:       c.Subject,
		Email:        c.Email,
		Roles:        model.NormalizeRoles(c.Roles),
		Unrecognized: model.UnrecognizedRoles(c.Roles),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
