package loan

import "fmt"

type Action string

const (
	ActionReview   Action = "review"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionWithdraw Action = "withdraw"
	ActionDisburse Action = "disburse"
	ActionClose    Action = "close"
)

type Actor string

const (
	ActorApplicant Actor = "applicant"
	ActorManager   Actor = "manager"
	// ActorSystem drives transitions that follow from other events
	// (disbursement promotion, closing on full repayment).
	ActorSystem Actor = "system"
)

type rule struct {
	from  []Status
	actor Actor
	to    Status
}

var rules = map[Action]rule{
	ActionReview:   {from: []Status{StatusPending}, actor: ActorManager, to: StatusUnderReview},
	ActionApprove:  {from: []Status{StatusPending, StatusUnderReview}, actor: ActorManager, to: StatusApproved},
	ActionReject:   {from: []Status{StatusPending, StatusUnderReview}, actor: ActorManager, to: StatusRejected},
	ActionWithdraw: {from: []Status{StatusPending}, actor: ActorApplicant, to: StatusWithdrawn},
	ActionDisburse: {from: []Status{StatusApproved}, actor: ActorSystem, to: StatusDisbursed},
	ActionClose:    {from: []Status{StatusApproved, StatusDisbursed}, actor: ActorSystem, to: StatusClosed},
}

// Transition returns the status reached by applying action from the given
// status, or ErrInvalidTransition when the guard fails.
func Transition(from Status, action Action, actor Actor) (Status, error) {
	if from.Terminal() {
		return from, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	r, ok := rules[action]
	if !ok {
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if r.actor != actor {
		return from, fmt.Errorf("%w: %s may not %s", ErrInvalidTransition, actor, action)
	}
	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}
	return from, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}

// ManagerAction maps a status a manager asks for onto the action reaching it.
func ManagerAction(target Status) (Action, error) {
	switch target {
	case StatusUnderReview:
		return ActionReview, nil
	case StatusApproved:
		return ActionApprove, nil
	case StatusRejected:
		return ActionReject, nil
	}
	return "", fmt.Errorf("%w: managers cannot set %q", ErrInvalidTransition, target)
}
