package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		want   bool
	}{
		{"admin creates polls", RoleAdmin, ActionCreatePoll, true},
		{"voter cannot create polls", RoleVoter, ActionCreatePoll, false},
		{"candidate cannot create polls", RoleCandidate, ActionCreatePoll, false},
		{"admin adds options", RoleAdmin, ActionAddOption, true},
		{"admin changes status", RoleAdmin, ActionChangeStatus, true},
		{"voter cannot change status", RoleVoter, ActionChangeStatus, false},
		{"admin promotes roles", RoleAdmin, ActionPromoteRole, true},
		{"voter casts votes", RoleVoter, ActionCastVote, true},
		{"admin cannot cast votes", RoleAdmin, ActionCastVote, false},
		{"candidate cannot cast votes", RoleCandidate, ActionCastVote, false},
		{"voter views own vote", RoleVoter, ActionViewOwnVote, true},
		{"candidate views own vote", RoleCandidate, ActionViewOwnVote, true},
		{"admin views own vote", RoleAdmin, ActionViewOwnVote, true},
		{"candidate views candidate stats", RoleCandidate, ActionViewCandidateStats, true},
		{"voter cannot view candidate stats", RoleVoter, ActionViewCandidateStats, false},
		{"admin cannot view candidate stats", RoleAdmin, ActionViewCandidateStats, false},
		{"anyone views results", Role(""), ActionViewResults, true},
		{"anyone lists polls", Role(""), ActionListPolls, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Principal{ID: "someone", Role: tc.role}
			assert.Equal(t, tc.want, Allowed(p, tc.action))
		})
	}
}

func TestAllowedDeniesUnknownAction(t *testing.T) {
	p := Principal{ID: "root", Role: RoleAdmin}
	assert.False(t, Allowed(p, Action("poll:delete")), "Actions without a rule are denied")
}
