package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lib/pq"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// 許可するロールの並び順（user → admin）
var knownRoles = []Role{RoleUser, RoleAdmin}

// Rolesはユーザーのロール集合。
// DBではtext[]として保存し、読み出し時に必ず正規化する。
type Roles []Role

// DefaultRolesは新規登録時・正規化で何も残らなかった時の値
func DefaultRoles() Roles {
	return Roles{RoleUser}
}

// NormalizeRolesは生のロール文字列を閉じた列挙に揃える。
// trim・記号除去・小文字化・重複除去を行い、空なら{user}にする。
func NormalizeRoles(raw []string) Roles {
	seen := make(map[Role]bool, len(raw))
	for _, r := range raw {
		seen[Role(cleanRole(r))] = true
	}

	out := make(Roles, 0, len(knownRoles))
	for _, k := range knownRoles {
		if seen[k] {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return DefaultRoles()
	}
	return out
}

// 文字と数字以外（{}や引用符、空白など）を落として小文字にする
func cleanRole(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	return strings.ToLower(s)
}

// UnrecognizedRolesは正規化前の値のうち、列挙に一致しなかったものを返す（ログ用）
func UnrecognizedRoles(raw []string) []string {
	var bad []string
	for _, r := range raw {
		c := cleanRole(r)
		if c == "" {
			continue
		}
		if c != string(RoleUser) && c != string(RoleAdmin) {
			bad = append(bad, r)
		}
	}
	return bad
}

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

func (rs Roles) Strings() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, string(r))
	}
	return out
}

// Scanはpostgresの配列表現（{user,admin}）をパースして正規化する
func (rs *Roles) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan roles: %w", err)
	}
	*rs = NormalizeRoles(arr)
	return nil
}

// Valueは正規化済みの値だけを書き込む
func (rs Roles) Value() (driver.Value, error) {
	return pq.StringArray(NormalizeRoles(rs.Strings()).Strings()).Value()
}

func (Roles) GormDataType() string {
	return "text[]"
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FirstName    *string   `gorm:"type:varchar(50)" json:"firstName,omitempty"`
	LastName     *string   `gorm:"type:varchar(50)" json:"lastName,omitempty"`
	Roles        Roles     `gorm:"type:text[];not null;default:'{user}'" json:"roles"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
