package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 認証情報の保存・取得を約束（更新・削除はしない）
type UserRepository interface {
	//新規ユーザー作成。emailが重複していたらErrConflict
	Create(ctx context.Context, user *model.User) error
	//メールからユーザーを一件取得する。無ければErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
}
