package rbac

import (
	"sync"

	"github.com/dapphari007/leavemon-sub001/internal/user"

	"github.com/casbin/casbin/v2"
)

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	s := &service{enforcer: enforcer}
	if err := s.seedPolicies(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedPolicies memuat policy untuk role enum yang tertutup.
// Role bersifat hirarkis: super_admin > admin > hr; setiap role approval
// juga mewarisi hak dasar employee.
func (s *service) seedPolicies() error {
	groupings := [][]string{
		{user.RoleSuperAdmin, user.RoleAdmin},
		{user.RoleAdmin, user.RoleHR},
		{user.RoleHR, user.RoleEmployee},
		{user.RoleManager, user.RoleEmployee},
		{user.RoleTeamLead, user.RoleEmployee},
	}

	policies := [][]string{
		// every authenticated employee
		{user.RoleEmployee, "leave_request", "create"},
		{user.RoleEmployee, "leave_request", "read"},
		{user.RoleEmployee, "leave_balance", "read"},

		// approvers
		{user.RoleTeamLead, "leave_request", "approve"},
		{user.RoleManager, "leave_request", "approve"},
		{user.RoleHR, "leave_request", "approve"},

		// org & policy visibility
		{user.RoleHR, "department", "read"},
		{user.RoleHR, "position", "read"},
		{user.RoleHR, "leave_category", "read"},
		{user.RoleHR, "workflow", "read"},
		{user.RoleHR, "user", "read"},
		{user.RoleHR, "leave_balance", "write"},

		// configuration is super_admin only
		{user.RoleSuperAdmin, "department", "write"},
		{user.RoleSuperAdmin, "position", "write"},
		{user.RoleSuperAdmin, "leave_category", "write"},
		{user.RoleSuperAdmin, "workflow", "write"},
		{user.RoleSuperAdmin, "scripts", "execute"},
	}

	for _, g := range groupings {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
