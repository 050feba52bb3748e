package constants

// 采购单状态常量
// 状态值开放扩展，completed 参与绩效计算
const (
	PurchaseOrderStatusPending   = "pending"
	PurchaseOrderStatusCompleted = "completed"
	PurchaseOrderStatusCanceled  = "canceled"
)

// 采购单编号格式常量
const (
	PurchaseOrderNumberFormat = "PO-%06d"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录失败原因常量
const (
	LoginFailReasonBadRequest           = "bad_request"
	LoginFailReasonCaptchaRequired      = "captcha_required"
	LoginFailReasonCaptchaInvalid       = "captcha_invalid"
	LoginFailReasonCaptchaConfigInvalid = "captcha_config_invalid"
	LoginFailReasonCaptchaVerifyFailed  = "captcha_verify_failed"
	LoginFailReasonInvalidCredentials   = "invalid_credentials"
	LoginFailReasonInternalError        = "internal_error"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin = "login"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskVendorSnapshot    = "vendor:snapshot:record"
	TaskVendorMetricsScan = "vendor:metrics:reconcile"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "vl"
)

// RBAC 角色常量
const (
	RoleStaff = "staff"
	RoleSuper = "super"
)
