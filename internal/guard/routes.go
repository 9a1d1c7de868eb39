package guard

// CLI actions gated by the guard
const (
	ActionLogin     Action = "login"
	ActionDashboard Action = "dashboard"
	ActionWhoami    Action = "whoami"
	ActionVMList    Action = "vms.list"
	ActionVMGet     Action = "vms.get"
	ActionVMControl Action = "vms.control"
	ActionUsers     Action = "users"
	ActionPasswd    Action = "passwd"
)

// Requirements maps each action to its access metadata, mirroring the
// panel's route table: user management is admin-only, VM power control
// needs operator privileges, everything else just needs a login.
// Consulted read-only.
var Requirements = map[Action]Requirement{
	ActionLogin:     {},
	ActionDashboard: {RequiresAuth: true},
	ActionWhoami:    {RequiresAuth: true},
	ActionVMList:    {RequiresAuth: true},
	ActionVMGet:     {RequiresAuth: true},
	ActionVMControl: {RequiresAuth: true, RequiresOperator: true},
	ActionUsers:     {RequiresAuth: true, RequiresAdmin: true},
	ActionPasswd:    {RequiresAuth: true},
}
