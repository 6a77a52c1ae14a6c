package auth

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// アクセストークンを発行する約束（token.Serviceが満たす）
type TokenIssuer interface {
	Issue(userID string, email string, roles model.Roles) (token string, expiresAt time.Time, err error)
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ログイン・登録のレスポンス
type AuthOutput struct {
	AccessToken string     `json:"accessToken"`
	ExpiresIn   int        `json:"expiresIn"`
	User        UserOutput `json:"user"`
}

// パスワードハッシュは含めない
type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     model.NormalizeRoles(u.Roles.Strings()).Strings(),
		CreatedAt: u.CreatedAt,
	}
}

func issue(issuer TokenIssuer, clock Clock, u model.User) (AuthOutput, error) {
	tok, exp, err := issuer.Issue(u.ID, u.Email, model.NormalizeRoles(u.Roles.Strings()))
	if err != nil {
		return AuthOutput{}, err
	}
	return AuthOutput{
		AccessToken: tok,
		ExpiresIn:   int(exp.Sub(clock.Now()).Seconds()),
		User:        ToUserOutput(u),
	}, nil
}
