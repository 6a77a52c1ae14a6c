package auth

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"go.uber.org/zap"
)

// パスワードの最小文字数
const minPasswordLength = 8

// 会員登録の入力
type RegisterUserInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// RegisterUserUsecaseは会員登録の処理。
// 登録したらそのままログイン状態にするためトークンも返す。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	idGen    IDGenerator
	clock    Clock
	logger   *zap.Logger
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	idGen IDGenerator,
	clock Clock,
	logger *zap.Logger,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	email := NormalizeEmail(in.Email)

	// emailの形式チェック
	if !isValidEmailFormat(email) {
		return AuthOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid email format")
	}

	// password の長さチェック
	if len(in.Password) < minPasswordLength {
		return AuthOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if isWeakPassword(in.Password) {
		return AuthOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "password is too weak")
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return AuthOutput{}, usecase.ErrEmailConflict
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		u.logger.Error("find user failed", zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.logger.Error("hash password failed", zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}

	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		FirstName:    trimName(in.FirstName),
		LastName:     trimName(in.LastName),
		Roles:        model.DefaultRoles(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存（同時登録はここでErrConflictになる）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return AuthOutput{}, usecase.ErrEmailConflict
		}
		u.logger.Error("create user failed", zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}

	out, err := issue(u.issuer, u.clock, *user)
	if err != nil {
		u.logger.Error("issue token failed", zap.String("user_id", user.ID), zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}

	u.logger.Info("user registered", zap.String("user_id", user.ID))
	return out, nil
}

// NormalizeEmailはtrimして小文字にする
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// メールチェック（表示名付きの形式は受け付けない）
func isValidEmailFormat(email string) bool {
	if email == "" || len(email) > 100 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func trimName(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
