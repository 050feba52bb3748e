package service

import "errors"

// 业务哨兵错误，handler 层通过 errors.Is 映射为响应码
var (
	ErrVendorNotFound        = errors.New("vendor not found")
	ErrVendorCodeExists      = errors.New("vendor code already exists")
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrPONumberExists        = errors.New("po number already exists")
	ErrAdminNotFound         = errors.New("admin not found")
	ErrAdminExists           = errors.New("admin already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrWeakPassword          = errors.New("weak password")
	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid  = errors.New("captcha config invalid")
)
