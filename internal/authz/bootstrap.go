package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// staff 覆盖供应商与采购单的日常台账操作，super 在其上叠加账号与审计管理
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "staff",
			Policies: []Policy{
				{Object: "/vendors", Action: "*"},
				{Object: "/vendors/:id", Action: "*"},
				{Object: "/vendors/:id/performance/history", Action: "GET"},
				{Object: "/purchase_orders", Action: "*"},
				{Object: "/purchase_orders/:id", Action: "*"},
				{Object: "/auth/profile", Action: "GET"},
				{Object: "/auth/password", Action: "POST"},
				{Object: "/login_logs", Action: "GET"},
			},
		},
		{
			Role:     "super",
			Inherits: []string{"staff"},
			Policies: []Policy{
				{Object: "/admins", Action: "*"},
				{Object: "/admins/:id", Action: "*"},
				{Object: "/admins/:id/roles", Action: "*"},
				{Object: "/authz/roles", Action: "GET"},
				{Object: "/authz/audit_logs", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 幂等写入预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		if err := s.applySeed(seed); err != nil {
			return err
		}
	}
	return s.persist()
}

func (s *Service) applySeed(seed RoleSeed) error {
	role, err := s.ensureRole(seed.Role)
	if err != nil {
		return err
	}

	for _, parent := range seed.Inherits {
		parentRole, err := NormalizeRole(parent)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
			return fmt.Errorf("link role inheritance failed: %w", err)
		}
	}

	for _, policy := range seed.Policies {
		action := NormalizeAction(policy.Action)
		if action == "" {
			return fmt.Errorf("builtin policy action is required")
		}
		if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
			return fmt.Errorf("seed builtin policy failed: %w", err)
		}
	}
	return nil
}
