package domain

// Principal is the authenticated caller as supplied by the auth collaborator
type Principal struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Action is an operation a principal asks to perform
type Action string

// Owner actions
const (
	ActionCreateGym     Action = "gym:create"
	ActionListGyms      Action = "gym:list"
	ActionUpdateGym     Action = "gym:update"
	ActionDeleteGym     Action = "gym:delete"
	ActionAddTrainer    Action = "gym:trainer:add"
	ActionRemoveTrainer Action = "gym:trainer:remove"
	ActionListTrainers  Action = "gym:trainer:list"
	ActionAddMember     Action = "gym:member:add"
	ActionRemoveMember  Action = "gym:member:remove"
	ActionListMembers   Action = "gym:member:list"
)

// Trainer actions
const (
	ActionListRoster        Action = "roster:list"
	ActionReadWorkoutPlan   Action = "workout_plan:read"
	ActionWriteWorkoutPlan  Action = "workout_plan:write"
	ActionDeleteWorkoutPlan Action = "workout_plan:delete"
	ActionReadDietPlan      Action = "diet_plan:read"
	ActionWriteDietPlan     Action = "diet_plan:write"
	ActionDeleteDietPlan    Action = "diet_plan:delete"
)

// Customer actions
const (
	ActionReadOwnPlans Action = "own_plan:read"
	ActionWriteOwnLog  Action = "own_log:write"
	ActionReadOwnLog   Action = "own_log:read"
)

// Actions available to every authenticated role
const (
	ActionReadNotifications Action = "notification:read"
	ActionMarkNotifications Action = "notification:mark"
)

// RolePermissions is the fixed permission table. Owner, trainer and customer
// sets are disjoint; notification actions are shared.
var RolePermissions = map[string][]Action{
	RoleOwner: {
		ActionCreateGym, ActionListGyms, ActionUpdateGym, ActionDeleteGym,
		ActionAddTrainer, ActionRemoveTrainer, ActionListTrainers,
		ActionAddMember, ActionRemoveMember, ActionListMembers,
	},
	RoleTrainer: {
		ActionListRoster,
		ActionReadWorkoutPlan, ActionWriteWorkoutPlan, ActionDeleteWorkoutPlan,
		ActionReadDietPlan, ActionWriteDietPlan, ActionDeleteDietPlan,
	},
	RoleCustomer: {
		ActionReadOwnPlans, ActionWriteOwnLog, ActionReadOwnLog,
	},
	RoleAdmin: {},
}

var sharedActions = []Action{ActionReadNotifications, ActionMarkNotifications}

// Permits reports whether role may perform action
func Permits(role string, action Action) bool {
	if !IsValidRole(role) {
		return false
	}
	for _, a := range sharedActions {
		if a == action {
			return true
		}
	}
	for _, a := range RolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}
