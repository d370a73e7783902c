package interfaces

import (
	"context"

	"github.com/m-ohira/custodian/pkg/domain/model"
)

// AuditUseCase defines the full audit flow for a single repository
type AuditUseCase interface {
	// Run lists the repository files, detects missing artifacts, and
	// reconciles each finding into the ticket store. The result reports a
	// terminal outcome per finding even when the run aborts early.
	Run(ctx context.Context, repo model.RepoRef) (*model.ReconcileResult, error)
}
