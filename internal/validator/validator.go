package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"ekathu/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// echo.Validator の実装。リクエストDTOの validate タグを検証する
type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーメッセージは json のフィールド名で出す
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i interface{}) error {
	err := r.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, message(verrs[0]))
	}
	return usecase.NewHTTPError(http.StatusBadRequest, "invalid request")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
