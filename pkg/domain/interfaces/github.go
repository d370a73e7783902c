package interfaces

import (
	"context"

	"github.com/m-ohira/custodian/pkg/domain/model"
)

// RepositoryLister defines read access to the code host
type RepositoryLister interface {
	// ListRepositories returns the repositories accessible to the
	// authenticated user
	ListRepositories(ctx context.Context) ([]model.RepoRef, error)

	// GetListing returns the root and workflow-directory file listings for a
	// repository. A missing workflow directory yields an empty listing, not
	// an error. Access failures carry types.TagAccessDenied.
	GetListing(ctx context.Context, repo model.RepoRef) (*model.RepoListing, error)
}
