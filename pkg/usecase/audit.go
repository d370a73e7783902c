package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
)

type auditUseCase struct {
	lister     interfaces.RepositoryLister
	reconciler *Reconciler
	describer  *Describer
	collection string
}

// AuditOption is a functional option for the audit use case
type AuditOption func(*auditUseCase)

// WithDescriber enables LLM enrichment of workflow findings
func WithDescriber(describer *Describer) AuditOption {
	return func(uc *auditUseCase) {
		uc.describer = describer
	}
}

// NewAudit creates a new AuditUseCase instance. collection is the initial
// target collection for created tickets.
func NewAudit(lister interfaces.RepositoryLister, reconciler *Reconciler, collection string, opts ...AuditOption) interfaces.AuditUseCase {
	uc := &auditUseCase{
		lister:     lister,
		reconciler: reconciler,
		collection: collection,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run audits one repository end to end. A listing failure is fatal and
// reconciliation never starts; the error carries the boundary classification
// (access denied or otherwise) for the caller.
func (uc *auditUseCase) Run(ctx context.Context, repo model.RepoRef) (*model.ReconcileResult, error) {
	logger := ctxlog.From(ctx)

	listing, err := uc.lister.GetListing(ctx, repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list repository files", goerr.V("repo", repo.String()))
	}

	findings := DetectFindings(repo, listing)

	logger.Info("Detected findings",
		"repo", repo.String(),
		"root_files", len(listing.RootFiles),
		"workflow_files", len(listing.WorkflowFiles),
		"findings", len(findings),
	)

	if uc.describer != nil {
		for i, finding := range findings {
			findings[i] = uc.describer.EnrichWorkflowFinding(ctx, finding, listing)
		}
	}

	if len(findings) == 0 {
		return &model.ReconcileResult{Collection: uc.collection}, nil
	}

	return uc.reconciler.Reconcile(ctx, findings, uc.collection)
}
