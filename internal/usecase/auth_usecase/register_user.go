package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"ekathu/internal/domain/model"
	"ekathu/internal/repository"
)

// 会員登録の入力
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User
}

// パスワードの最小文字数
const MinPasswordLength = 8

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrNameRequired       = errors.New("name required")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		idGen:    idGen,
		clock:    clock,
	}
}

// 会員登録実行（ロールは customer）
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	return u.create(ctx, in, model.RoleCustomer)
}

func (u *RegisterUserUsecase) create(ctx context.Context, in RegisterUserInput, role model.Role) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, ErrNameRequired
	}

	// emailの形式チェック
	email := model.NormalizeEmail(in.Email)
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	// password の長さチェック
	if len(in.Password) < MinPasswordLength {
		return out, ErrPasswordTooShort
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	// Userを作って保存
	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         role,
		TokenVersion: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 同時登録はユニーク制約で弾かれる
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrEmailAlreadyExists
		}
		return out, err
	}

	// 返すときは password を空にして漏洩防止
	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	return out, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// "Name <a@x.com>" 形式は受けない
	return err == nil && addr.Address == email
}
