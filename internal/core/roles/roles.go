// Package roles contains the pure role-authority check. A member manages
// queues iff they hold at least one of the server's configured manager roles.
package roles

// IsManager reports whether any of the member's roles is a manager role.
// O(len(memberRoles) + len(managerRoles)), no side effects.
func IsManager(memberRoles, managerRoles []string) bool {
	if len(memberRoles) == 0 || len(managerRoles) == 0 {
		return false
	}

	managers := make(map[string]struct{}, len(managerRoles))
	for _, id := range managerRoles {
		managers[id] = struct{}{}
	}

	for _, id := range memberRoles {
		if _, ok := managers[id]; ok {
			return true
		}
	}
	return false
}
