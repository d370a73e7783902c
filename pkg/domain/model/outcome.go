package model

// OutcomeStatus is the terminal state of one finding after reconciliation
type OutcomeStatus string

const (
	OutcomeCreated   OutcomeStatus = "created"
	OutcomeUpdated   OutcomeStatus = "updated"
	OutcomeAbandoned OutcomeStatus = "abandoned"
)

// ReconcileOutcome records the terminal state of a single finding.
// TicketKey is set for created/updated, Err for abandoned.
type ReconcileOutcome struct {
	Finding   Finding
	Status    OutcomeStatus
	TicketKey string
	Err       error
}

// ReconcileResult is the result of one reconciliation run. Collection is the
// target collection in effect after the run, which differs from the initial
// one when a replacement was obtained mid-run.
type ReconcileResult struct {
	Outcomes   []ReconcileOutcome
	Collection string
}
