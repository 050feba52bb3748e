package authz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	adminSubPrefix  = "admin:"
	rolePrefix      = "role:"

	// roleAnchor 充当所有角色的占位父节点，让没绑策略的空角色也能持久化
	roleAnchor = "role:__anchor__"
)

// 请求主体先经 g 规则按角色展开，资源路径用 keyMatch2 匹配 :id 形式的参数段
const rbacModelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = keyMatch2(r.obj, p.obj) && (g(r.sub, p.sub) || r.sub == p.sub) && (p.act == "*" || r.act == p.act)
`

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 基于 Casbin 的 RBAC 授权层
// 角色与策略统一落在 casbin_rule 表，管理员通过 g 规则挂到角色上
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 构建授权服务并加载既有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("init authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModelText)
	if err != nil {
		return nil, fmt.Errorf("parse authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service not initialized")
	}
	return nil
}

// persist 与自动保存模式对齐，策略写入已由适配器即时完成
func (s *Service) persist() error {
	return s.ready()
}

// EnforceAdmin 判定管理员对资源与动作是否有权限
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// ensureRole 注册角色到占位父节点下，已存在时直接返回规整后的名称
func (s *Service) ensureRole(role string) (string, error) {
	name, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if name == roleAnchor {
		return "", fmt.Errorf("reserved role is not allowed")
	}

	has, err := s.enforcer.HasNamedGroupingPolicy("g", name, roleAnchor)
	if err != nil {
		return "", fmt.Errorf("check role failed: %w", err)
	}
	if has {
		return name, nil
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", name, roleAnchor); err != nil {
		return "", fmt.Errorf("register role failed: %w", err)
	}
	return name, s.persist()
}

// ListRoles 列出全部已注册角色
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}

	// g 规则两列都可能出现角色名，逐格收集去重
	seen := make(map[string]struct{})
	for _, rule := range rules {
		for i, cell := range rule {
			if i > 1 {
				break
			}
			if strings.HasPrefix(cell, rolePrefix) && cell != roleAnchor {
				seen[cell] = struct{}{}
			}
		}
	}

	roles := make([]string, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles, nil
}

// SetAdminRoles 以覆盖方式重设管理员的角色绑定
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if adminID == 0 {
		return fmt.Errorf("admin id is required")
	}

	sub := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, sub); err != nil {
		return fmt.Errorf("clear admin roles failed: %w", err)
	}
	for _, role := range roles {
		name, err := s.ensureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", sub, name); err != nil {
			return fmt.Errorf("bind admin role failed: %w", err)
		}
	}
	return s.persist()
}

// GetAdminRoles 查询管理员当前绑定的角色
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin id is required")
	}

	bound, err := s.enforcer.GetRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get admin roles failed: %w", err)
	}
	roles := make([]string, 0, len(bound))
	for _, role := range bound {
		if role == roleAnchor || !strings.HasPrefix(role, rolePrefix) {
			continue
		}
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles, nil
}

// GetAdminPolicies 汇总管理员经角色与直连两条路径生效的策略
func (s *Service) GetAdminPolicies(adminID uint) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	roles, err := s.GetAdminRoles(adminID)
	if err != nil {
		return nil, err
	}
	subjects := append([]string{SubjectForAdmin(adminID)}, roles...)

	merged := make(map[string]Policy)
	for _, sub := range subjects {
		rules, err := s.enforcer.GetFilteredPolicy(0, sub)
		if err != nil {
			return nil, fmt.Errorf("get policies for %s failed: %w", sub, err)
		}
		for _, rule := range rules {
			if len(rule) < 3 {
				continue
			}
			item := Policy{
				Subject: strings.TrimSpace(rule[0]),
				Object:  NormalizeObject(rule[1]),
				Action:  NormalizeAction(rule[2]),
			}
			merged[item.Subject+"|"+item.Object+"|"+item.Action] = item
		}
	}

	result := make([]Policy, 0, len(merged))
	for _, item := range merged {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Action < b.Action
	})
	return result, nil
}

// SubjectForAdmin 管理员在策略中的主体标识
func SubjectForAdmin(adminID uint) string {
	return adminSubPrefix + strconv.FormatUint(uint64(adminID), 10)
}

// NormalizeRole 规整角色名并统一补上 role: 前缀
func NormalizeRole(role string) (string, error) {
	name := strings.ReplaceAll(strings.TrimSpace(role), " ", "_")
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", fmt.Errorf("role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 把请求路径收敛为策略里的资源标识，剥掉 API 版本前缀
func NormalizeObject(object string) string {
	obj := strings.TrimSpace(object)
	if obj != "" && !strings.HasPrefix(obj, "/") {
		obj = "/" + obj
	}
	switch {
	case obj == "" || obj == apiV1Prefix:
		return "/"
	case strings.HasPrefix(obj, apiV1Prefix+"/"):
		return strings.TrimPrefix(obj, apiV1Prefix)
	}
	return obj
}

// NormalizeAction 动作统一为大写方法名
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
