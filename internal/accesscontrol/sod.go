package accesscontrol

// SeparationOfDutyRule declares that the identity who performed ActorAction
// on an entity may not also perform BlockedAction on the same entity.
type SeparationOfDutyRule struct {
	ID            string
	ActorAction   string
	BlockedAction string
	Description   string
}

// The wired rule pairs. The inquiry engine does not enforce these; flows
// that need them call IsBlocked with the prior actor on record.
var separationOfDutyRules = []SeparationOfDutyRule{
	{
		ID:            "sod-payout",
		ActorAction:   "payouts.request",
		BlockedAction: "payouts.approve",
		Description:   "a payout may not be approved by its requester",
	},
	{
		ID:            "sod-role",
		ActorAction:   "staff.roles.request",
		BlockedAction: "staff.roles.approve",
		Description:   "a role change may not be approved by its requester",
	},
	{
		ID:            "sod-review",
		ActorAction:   "staff.reviews.submit",
		BlockedAction: "staff.reviews.approve",
		Description:   "a performance review may not be approved by its author",
	},
}

// SeparationOfDutyRules returns the declared rule table.
func SeparationOfDutyRules() []SeparationOfDutyRule {
	out := make([]SeparationOfDutyRule, len(separationOfDutyRules))
	copy(out, separationOfDutyRules)
	return out
}

// RuleForAction returns the rule whose blocked action matches, if any.
func RuleForAction(blockedAction string) (SeparationOfDutyRule, bool) {
	for _, rule := range separationOfDutyRules {
		if rule.BlockedAction == blockedAction {
			return rule, true
		}
	}
	return SeparationOfDutyRule{}, false
}

// IsBlocked reports whether actorID performing rule.BlockedAction on an
// entity is forbidden because the same identity performed rule.ActorAction
// on it earlier.
func IsBlocked(actorID, priorActionActorID string, rule SeparationOfDutyRule) bool {
	if actorID == "" || priorActionActorID == "" {
		return false
	}
	return actorID == priorActionActorID
}
