package service

import (
	"fmt"
	"unicode"

	"github.com/vendorlink/internal/config"
)

// passwordPolicyError 携带给用户看的规则原文，errors.Is 按 ErrWeakPassword 匹配
type passwordPolicyError struct {
	msg string
}

func (e passwordPolicyError) Error() string { return e.msg }

func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }

// classifyPassword 统计口令中出现过的字符类别
func classifyPassword(password string) (hasUpper, hasLower, hasNumber, hasSpecial bool) {
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper, hasLower, hasNumber, hasSpecial
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	enabled := policy.MinLength > 0 || policy.RequireUpper || policy.RequireLower ||
		policy.RequireNumber || policy.RequireSpecial
	if !enabled {
		return nil
	}

	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{msg: fmt.Sprintf("password must be at least %d characters", policy.MinLength)}
	}

	hasUpper, hasLower, hasNumber, hasSpecial := classifyPassword(password)
	checks := []struct {
		required bool
		present  bool
		msg      string
	}{
		{policy.RequireUpper, hasUpper, "password must contain an uppercase letter"},
		{policy.RequireLower, hasLower, "password must contain a lowercase letter"},
		{policy.RequireNumber, hasNumber, "password must contain a number"},
		{policy.RequireSpecial, hasSpecial, "password must contain a special character"},
	}
	for _, check := range checks {
		if check.required && !check.present {
			return passwordPolicyError{msg: check.msg}
		}
	}
	return nil
}
