package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/domain/types"
)

// MatchFunc decides whether an existing ticket summary satisfies a finding
// summary. The store search is loosely scoped, so the final decision is made
// here with a pluggable strategy.
type MatchFunc func(ticketSummary, findingSummary string) bool

// MatchContains is the default strategy: case-insensitive substring
// containment of the finding summary in the ticket summary.
func MatchContains(ticketSummary, findingSummary string) bool {
	return strings.Contains(strings.ToLower(ticketSummary), strings.ToLower(findingSummary))
}

// MatchExact requires the whole ticket summary to equal the finding summary,
// ignoring case
func MatchExact(ticketSummary, findingSummary string) bool {
	return strings.EqualFold(ticketSummary, findingSummary)
}

// MatcherFor resolves a strategy name from configuration. An empty name
// selects the default.
func MatcherFor(name string) (MatchFunc, error) {
	switch name {
	case "", "contains":
		return MatchContains, nil
	case "exact":
		return MatchExact, nil
	default:
		return nil, goerr.New("unknown match strategy", goerr.V("match", name))
	}
}

// Reconciler drives each finding to exactly one ticket in the store:
// create when no matching ticket exists, update otherwise.
type Reconciler struct {
	store    interfaces.TicketStore
	resolver interfaces.CollectionResolver
	match    MatchFunc
}

// ReconcilerOption is a functional option for Reconciler configuration
type ReconcilerOption func(*Reconciler)

// WithMatcher overrides the duplicate-detection strategy
func WithMatcher(match MatchFunc) ReconcilerOption {
	return func(r *Reconciler) {
		r.match = match
	}
}

// NewReconciler creates a Reconciler
func NewReconciler(store interfaces.TicketStore, resolver interfaces.CollectionResolver, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:    store,
		resolver: resolver,
		match:    MatchContains,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile processes findings strictly in order, one at a time. Collection
// state is threaded through the call: a replacement obtained while retrying
// one finding applies to all subsequent findings and is returned in the
// result. Non-collection store failures abandon only the finding that caused
// them; a failed collection resolution abandons the current and all
// remaining findings and returns the error.
func (r *Reconciler) Reconcile(ctx context.Context, findings []model.Finding, collection string) (*model.ReconcileResult, error) {
	result := &model.ReconcileResult{Collection: collection}

	for i, finding := range findings {
		outcome, current, err := r.reconcileOne(ctx, finding, result.Collection)
		result.Collection = current
		if err != nil {
			// Systemic misconfiguration: report every unprocessed finding as
			// abandoned for the same cause instead of retrying each one.
			for _, rest := range findings[i:] {
				result.Outcomes = append(result.Outcomes, model.ReconcileOutcome{
					Finding: rest,
					Status:  model.OutcomeAbandoned,
					Err:     err,
				})
			}
			return result, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// reconcileOne drives a single finding to a terminal outcome. It returns the
// collection in effect afterwards, and a non-nil error only for failures
// that must abort the remaining run. Every retry must carry a collection not
// yet rejected in this loop; a resolver that repeats a rejected key cannot
// make progress and is treated as exhausted.
func (r *Reconciler) reconcileOne(ctx context.Context, finding model.Finding, collection string) (model.ReconcileOutcome, string, error) {
	logger := ctxlog.From(ctx)

	rejected := map[string]bool{}
	for {
		status, key, err := r.apply(ctx, finding, collection)
		if err == nil {
			logger.Info("Reconciled finding",
				"summary", finding.Summary,
				"status", status,
				"ticket", key,
				"collection", collection,
			)
			return model.ReconcileOutcome{Finding: finding, Status: status, TicketKey: key}, collection, nil
		}

		if goerr.HasTag(err, types.TagInvalidCollection) {
			rejected[collection] = true
			logger.Warn("Target collection rejected, resolving a replacement",
				"collection", collection,
				"summary", finding.Summary,
			)

			replacement, rerr := r.renewCollection(ctx)
			if rerr != nil {
				outcome := model.ReconcileOutcome{Finding: finding, Status: model.OutcomeAbandoned, Err: rerr}
				return outcome, collection, rerr
			}
			if rejected[replacement] {
				rerr := goerr.New("replacement collection was already rejected",
					goerr.T(types.TagResolverExhausted),
					goerr.V("collection", replacement),
				)
				outcome := model.ReconcileOutcome{Finding: finding, Status: model.OutcomeAbandoned, Err: rerr}
				return outcome, collection, rerr
			}

			// Retry the same finding; the replacement sticks for the rest of
			// the run.
			collection = replacement
			continue
		}

		logger.Error("Abandoning finding", "summary", finding.Summary, "error", err)
		return model.ReconcileOutcome{Finding: finding, Status: model.OutcomeAbandoned, Err: err}, collection, nil
	}
}

// apply performs one search-then-create-or-update attempt against the store
func (r *Reconciler) apply(ctx context.Context, finding model.Finding, collection string) (model.OutcomeStatus, string, error) {
	candidates, err := r.store.Search(ctx, collection, finding.Summary)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to search tickets", goerr.V("summary", finding.Summary))
	}

	for _, candidate := range candidates {
		if !r.match(candidate.Summary, finding.Summary) {
			continue
		}
		ticket, err := r.store.Update(ctx, candidate.Key, finding)
		if err != nil {
			return "", "", goerr.Wrap(err, "failed to update ticket", goerr.V("key", candidate.Key))
		}
		return model.OutcomeUpdated, ticket.Key, nil
	}

	ticket, err := r.store.Create(ctx, collection, finding)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to create ticket", goerr.V("summary", finding.Summary))
	}
	return model.OutcomeCreated, ticket.Key, nil
}

// renewCollection asks the resolver for a replacement collection. Zero
// candidates or a failed choice is fatal to the remaining run.
func (r *Reconciler) renewCollection(ctx context.Context) (string, error) {
	candidates, err := r.resolver.ListCollections(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list collections", goerr.T(types.TagResolverExhausted))
	}
	if len(candidates) == 0 {
		return "", goerr.New("no collections available for replacement", goerr.T(types.TagResolverExhausted))
	}

	choice, err := r.resolver.ChooseCollection(ctx, candidates)
	if err != nil {
		return "", goerr.Wrap(err, "failed to choose replacement collection", goerr.T(types.TagResolverExhausted))
	}
	return choice, nil
}
