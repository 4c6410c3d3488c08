package config

import "time"

// SecurityConfig содержит настройки защиты входа.
type SecurityConfig struct {
	// HideAccountExistence отвечает одинаково на неизвестный логин и неверный пароль.
	HideAccountExistence bool          `env:"AUTH_HIDE_ACCOUNT_EXISTENCE" env-default:"false"`
	LoginLimiterEnabled  bool          `env:"AUTH_LOGIN_LIMITER_ENABLED" env-default:"false"`
	LoginMaxFailures     int           `env:"AUTH_LOGIN_MAX_FAILURES" env-default:"5"`
	LoginFailureWindow   time.Duration `env:"AUTH_LOGIN_FAILURE_WINDOW" env-default:"15m"`
}

// Validate проверяет настройки ограничителя, если он включен.
func (s *SecurityConfig) Validate() error {
	if s.LoginLimiterEnabled && (s.LoginMaxFailures <= 0 || s.LoginFailureWindow <= 0) {
		return ErrInvalidLimiter
	}
	return nil
}
