package account

// Pure authorization rules. Every mutating user-management endpoint consults
// exactly the matching rule before touching storage.

// CanManageUsers reports whether requester may list accounts.
func CanManageUsers(requester Account) bool {
	return requester.IsAdmin
}

// CanCreateUser reports whether requester may create new accounts.
func CanCreateUser(requester Account) bool {
	return requester.IsAdmin
}

// CanEditUser reports whether requester may edit target. Any admin may edit
// non-main accounts and themselves; the main administrator can only be edited
// by itself.
func CanEditUser(requester, target Account) bool {
	return requester.IsAdmin && (target.ID == requester.ID || !target.IsMain)
}

// CanDeleteUser reports whether requester may delete target. Deletion is
// reserved for the main administrator; self-deletion and deletion of the main
// account are always blocked to avoid lockout.
func CanDeleteUser(requester, target Account) bool {
	return requester.IsMain && !target.IsMain && target.ID != requester.ID
}
