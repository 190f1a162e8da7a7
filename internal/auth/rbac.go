package auth

// PermissionTable maps an operation name to the set of user types allowed to
// perform it. Each resource handler declares its own table as data; an
// operation with no entry is unrestricted.
type PermissionTable map[string][]string

// Allows decides whether the principal may perform the named operation.
// Decision order:
//  1. operation absent from the table: allowed, for any caller
//  2. anonymous caller: denied
//  3. superadmin: allowed, bypassing the required set
//  4. otherwise the caller's user type must be in the required set; an empty
//     set therefore admits superadmins only
//
// Pure predicate, no side effects. Callers must run it before touching any
// resource data.
func (t PermissionTable) Allows(principal *User, operation string) bool {
	requiredTypes, restricted := t[operation]
	if !restricted {
		return true
	}
	if principal == nil {
		return false
	}
	if principal.IsSuperadmin() {
		return true
	}
	for _, userType := range requiredTypes {
		if principal.UserType == userType {
			return true
		}
	}
	return false
}

// CanManagePassword is the self-or-superadmin rule for password changes. It
// needs identity comparison, which the table mechanism does not perform, so it
// is layered on top of the generic gate rather than folded into it.
func CanManagePassword(caller *User, targetUserID int64) bool {
	if caller == nil {
		return false
	}
	return caller.ID == targetUserID || caller.IsSuperadmin()
}
