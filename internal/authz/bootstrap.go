package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Revoked   []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
// admin/staff 与用户表 role 字段同名，inventory 通过 SetUserRoles 额外授予
// staff 只读统计与库存流水，订单状态变更仅限 admin
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "staff",
			Policies: []Policy{
				{Object: "/admin/orders/stats", Action: "GET"},
				{Object: "/admin/variants/:id/stock-movements", Action: "GET"},
				{Object: "/admin/variants/:id/stock-reconcile", Action: "GET"},
			},
			Revoked: []Policy{
				{Object: "/orders/:id/status", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role:     "inventory",
			Inherits: []string{"staff"},
			Policies: []Policy{
				{Object: "/admin/variants/:id/stock-movements", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "admin",
			Inherits: []string{"inventory"},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
				{Object: "/orders/:id/status", Action: "PUT"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		// 旧版本写入的授权需要在启动时收回
		for _, policy := range seed.Revoked {
			removed, err := s.enforcer.RemovePolicy(role, NormalizeObject(policy.Object), NormalizeAction(policy.Action))
			if err != nil {
				return fmt.Errorf("revoke builtin policy failed: %w", err)
			}
			if removed {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
