package repository

import (
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 返回数据库方言名，识别不到时按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	if name := strings.ToLower(strings.TrimSpace(db.Dialector.Name())); name != "" {
		return name
	}
	return "sqlite"
}

// likeOperatorByDialect postgres 走 ILIKE 做不区分大小写匹配，其余方言用 LIKE
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	}
	return "LIKE"
}
