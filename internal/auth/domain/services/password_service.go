package services

import (
	"errors"
)

// Ошибки хеширования паролей.
var (
	ErrHashingFailed = errors.New("failed to hash password")
	ErrInvalidCost   = errors.New("invalid password hash cost")
)

// MinPasswordLength - минимальная длина пароля при регистрации.
const MinPasswordLength = 8

// HashAlgorithm определяет алгоритм хеширования паролей.
type HashAlgorithm string

// Поддерживаемые алгоритмы.
const (
	AlgorithmBcrypt   HashAlgorithm = "bcrypt"
	AlgorithmArgon2id HashAlgorithm = "argon2id"
)
