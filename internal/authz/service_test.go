package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	// 每个测试一份独立的内存库，避免串库
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func setupBootstrappedService(t *testing.T) *Service {
	t.Helper()
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func grantRoles(t *testing.T, svc *Service, adminID uint, roles ...string) {
	t.Helper()
	if err := svc.SetAdminRoles(adminID, roles); err != nil {
		t.Fatalf("set roles %v for admin %d failed: %v", roles, adminID, err)
	}
}

func enforce(t *testing.T, svc *Service, adminID uint, obj, act string) bool {
	t.Helper()
	allow, err := svc.EnforceAdmin(adminID, obj, act)
	if err != nil {
		t.Fatalf("enforce %s %s failed: %v", act, obj, err)
	}
	return allow
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupBootstrappedService(t)
	grantRoles(t, svc, 1, "staff")

	if !enforce(t, svc, 1, "/api/v1/vendors/42", "get") {
		t.Fatalf("staff should read vendor detail")
	}
	if enforce(t, svc, 1, "/api/v1/admins", "POST") {
		t.Fatalf("staff must not manage admin accounts")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupBootstrappedService(t)

	grantRoles(t, svc, 2, "super")
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:super" {
		t.Fatalf("roles want [role:super], got=%v", roles)
	}
	if !enforce(t, svc, 2, "/admins", "GET") {
		t.Fatalf("super role should list admins")
	}

	// 覆盖式设置，旧角色的授权要一并失效
	grantRoles(t, svc, 2, "staff")
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:staff" {
		t.Fatalf("roles want [role:staff], got=%v", roles)
	}
	if enforce(t, svc, 2, "/admins", "GET") {
		t.Fatalf("old super permission should be gone")
	}
	if !enforce(t, svc, 2, "/purchase_orders", "GET") {
		t.Fatalf("new staff permission should be granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/vendors/:id", want: "/vendors/:id"},
		{in: "/vendors/:id", want: "/vendors/:id"},
		{in: "purchase_orders", want: "/purchase_orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupBootstrappedService(t)

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	missing := map[string]bool{
		"role:staff": true,
		"role:super": true,
	}
	for _, role := range roles {
		delete(missing, role)
	}
	if len(missing) != 0 {
		t.Fatalf("builtin roles missing: %v", missing)
	}

	grantRoles(t, svc, 3, "super")
	if !enforce(t, svc, 3, "/vendors", "GET") {
		t.Fatalf("super should inherit staff vendor access")
	}
	if !enforce(t, svc, 3, "/authz/audit_logs", "GET") {
		t.Fatalf("super should read audit logs")
	}

	grantRoles(t, svc, 4, "staff")
	if enforce(t, svc, 4, "/admins/9/roles", "PUT") {
		t.Fatalf("staff must not assign roles")
	}
}
