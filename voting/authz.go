package voting

// The authorization gate is a single rule table instead of role comparisons
// scattered across handlers. Ownership checks (a candidate reading their own
// stats) stay with the operation that knows the resource; the gate only
// answers "may this role attempt this action at all".

type Role string

const (
	RoleVoter     Role = "voter"
	RoleCandidate Role = "candidate"
	RoleAdmin     Role = "admin"
)

// Principal is the authenticated actor handed over by the upstream
// authenticator. The engine never validates credentials itself.
type Principal struct {
	ID   string
	Role Role
}

type Action string

const (
	ActionCreatePoll         Action = "poll:create"
	ActionAddOption          Action = "poll:add_option"
	ActionChangeStatus       Action = "poll:change_status"
	ActionPromoteRole        Action = "user:promote_role"
	ActionCastVote           Action = "vote:cast"
	ActionViewOwnVote        Action = "vote:view_own"
	ActionViewCandidateStats Action = "candidate:view_stats"
	ActionViewResults        Action = "results:view"
	ActionListPolls          Action = "poll:list"
)

// Public marks actions that need no principal at all.
const Public Role = "*"

var rules = map[Action][]Role{
	ActionCreatePoll:         {RoleAdmin},
	ActionAddOption:          {RoleAdmin},
	ActionChangeStatus:       {RoleAdmin},
	ActionPromoteRole:        {RoleAdmin},
	ActionCastVote:           {RoleVoter},
	ActionViewOwnVote:        {RoleVoter, RoleCandidate, RoleAdmin},
	ActionViewCandidateStats: {RoleCandidate},
	ActionViewResults:        {Public},
	ActionListPolls:          {Public},
}

// Allowed reports whether the principal's role may attempt the action.
// Anything without an explicit rule is denied.
func Allowed(p Principal, action Action) bool {
	allowed, ok := rules[action]
	if !ok {
		return false
	}
	for _, role := range allowed {
		if role == Public || role == p.Role {
			return true
		}
	}
	return false
}
