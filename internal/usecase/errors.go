package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ekathu/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// エラーの種類。HTTPError.Err に入るので errors.Is で見分けられる
var (
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//404
	ErrNotFound = errors.New("not found")
	//409 競合
	ErrConflict = errors.New("conflict")
	//400 カートが空
	ErrEmptyCart = errors.New("cart empty")
	//400 共同購入
	ErrAlreadyMember = model.ErrAlreadyMember
	ErrGroupFull     = model.ErrGroupFull
	//500
	ErrInternal = errors.New("internal error")
)

type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// 種類はステータスから決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     kindForStatus(status),
	}
}

// 種類を明示して作る（同じ400でも AlreadyMember と GroupFull を分けたいとき）
func NewKindError(kind error, status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     kind,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// ストア障害はログに残して、外には中身を出さない
func internalError(ctx context.Context, err error, msg string) error {
	log.Ctx(ctx).Error().Err(err).Msg(msg)
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
