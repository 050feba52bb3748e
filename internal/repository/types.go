package repository

import "time"

// VendorListFilter 查询供应商列表的过滤条件
type VendorListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}

// PurchaseOrderListFilter 查询采购单列表的过滤条件
type PurchaseOrderListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	Status   string
	PONumber string
}

// PerformanceListFilter 查询绩效快照列表的过滤条件
type PerformanceListFilter struct {
	Page         int
	PageSize     int
	VendorID     uint
	RecordedFrom *time.Time
	RecordedTo   *time.Time
}

// LoginLogListFilter 查询登录日志列表的过滤条件
type LoginLogListFilter struct {
	Page        int
	PageSize    int
	AdminID     uint
	Username    string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
