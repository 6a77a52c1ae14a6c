package auth

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/infra/metrics"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"go.uber.org/zap"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    Clock
	logger   *zap.Logger
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
	logger *zap.Logger,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
		logger:   logger,
	}
}

// ログイン処理を実行する
// メール違い・パスワード違いはどちらも "invalid credentials"
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return AuthOutput{}, usecase.ErrInvalidCredentials
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// 応答時間でメールの登録有無が分からないよう照合だけは行う
			_ = u.verifier.Verify(in.Password, dummyPasswordHash())
			metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
			return AuthOutput{}, usecase.ErrInvalidCredentials
		}
		u.logger.Error("find user failed", zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return AuthOutput{}, usecase.ErrInvalidCredentials
	}

	if bad := model.UnrecognizedRoles(user.Roles.Strings()); len(bad) > 0 {
		u.logger.Warn("dropping unrecognized roles", zap.String("user_id", user.ID), zap.Strings("roles", bad))
	}

	out, err := issue(u.issuer, u.clock, *user)
	if err != nil {
		u.logger.Error("issue token failed", zap.String("user_id", user.ID), zap.Error(err))
		return AuthOutput{}, usecase.ErrInternal
	}
	return out, nil
}
