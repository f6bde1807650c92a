package audit

// Audit actions.
const (
	ActionLogin          = "login"
	ActionLoginFailed    = "login_failed"
	ActionRegister       = "register"
	ActionPasswordChange = "password_change"
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionGrantAdmin     = "grant_admin"
	ActionRevokeAdmin    = "revoke_admin"
	ActionSeed           = "seed"
)

// Entity types.
const (
	EntityUser = "user"
	EntityTask = "task"
)
