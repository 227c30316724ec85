package models

// Роли пользователей.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// JobStatus константы статусов заказов.
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusClosed     = "closed"
)

// ProposalStatus константы статусов откликов.
const (
	ProposalStatusPending   = "pending"
	ProposalStatusCountered = "countered"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
)

// CounterBidStatus константы статусов контрпредложений.
const (
	CounterBidStatusPending    = "pending"
	CounterBidStatusAccepted   = "accepted"
	CounterBidStatusRejected   = "rejected"
	CounterBidStatusCountered  = "countered"
	CounterBidStatusSuperseded = "superseded"
	CounterBidStatusClosed     = "closed"
)

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleClient:     {},
	RoleFreelancer: {},
}

// ValidJobStatuses список валидных статусов заказов.
var ValidJobStatuses = map[string]struct{}{
	JobStatusOpen:       {},
	JobStatusInProgress: {},
	JobStatusCompleted:  {},
	JobStatusClosed:     {},
}

// ValidProposalStatuses список валидных статусов откликов.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusCountered: {},
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
}

// ValidCounterBidStatuses список валидных статусов контрпредложений.
var ValidCounterBidStatuses = map[string]struct{}{
	CounterBidStatusPending:    {},
	CounterBidStatusAccepted:   {},
	CounterBidStatusRejected:   {},
	CounterBidStatusCountered:  {},
	CounterBidStatusSuperseded: {},
	CounterBidStatusClosed:     {},
}

// proposalTransitions описывает допустимые переходы статусов отклика.
// accepted и rejected — терминальные.
var proposalTransitions = map[string]map[string]struct{}{
	ProposalStatusPending: {
		ProposalStatusCountered: {},
		ProposalStatusAccepted:  {},
		ProposalStatusRejected:  {},
	},
	ProposalStatusCountered: {
		ProposalStatusPending:  {},
		ProposalStatusAccepted: {},
		ProposalStatusRejected: {},
	},
}

// counterBidTransitions описывает допустимые переходы статусов контрпредложения.
// Любой статус кроме pending — терминальный.
var counterBidTransitions = map[string]map[string]struct{}{
	CounterBidStatusPending: {
		CounterBidStatusAccepted:   {},
		CounterBidStatusRejected:   {},
		CounterBidStatusCountered:  {},
		CounterBidStatusSuperseded: {},
		CounterBidStatusClosed:     {},
	},
}

// jobTransitions описывает допустимые переходы статусов заказа.
var jobTransitions = map[string]map[string]struct{}{
	JobStatusOpen: {
		JobStatusInProgress: {},
		JobStatusClosed:     {},
	},
	JobStatusInProgress: {
		JobStatusCompleted: {},
		JobStatusClosed:    {},
	},
}

// CanProposalTransition проверяет допустимость перехода статуса отклика.
func CanProposalTransition(from, to string) bool {
	targets, ok := proposalTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// CanCounterBidTransition проверяет допустимость перехода статуса контрпредложения.
func CanCounterBidTransition(from, to string) bool {
	targets, ok := counterBidTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// CanJobTransition проверяет допустимость перехода статуса заказа.
func CanJobTransition(from, to string) bool {
	targets, ok := jobTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}
