package repository

import "errors"

// どのストア実装でも同じエラーを返す
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)
