package auth

import (
	"context"
	"errors"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// トークンの本人情報をDBから返す
type MeUsecase struct {
	userRepo repository.UserRepository
}

func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

func (u *MeUsecase) Execute(ctx context.Context, userID string) (UserOutput, error) {
	if userID == "" {
		return UserOutput{}, usecase.ErrUnauthorized
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		// トークンは有効でもユーザーが消えている
		return UserOutput{}, usecase.ErrUnauthorized
	}
	if err != nil {
		return UserOutput{}, usecase.ErrInternal
	}
	return ToUserOutput(*user), nil
}
