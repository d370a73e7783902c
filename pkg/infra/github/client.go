package github

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a repository lister authenticated with a personal access
// token
func NewClient(token string) interfaces.RepositoryLister {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// NewWithClient wraps an already-configured go-github client. Used by tests
// and GitHub Enterprise setups.
func NewWithClient(githubClient *github.Client) interfaces.RepositoryLister {
	return &client{githubClient: githubClient}
}

// ListRepositories returns all repositories accessible to the authenticated
// user, following pagination
func (c *client) ListRepositories(ctx context.Context) ([]model.RepoRef, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var refs []model.RepoRef
	for {
		repos, resp, err := c.githubClient.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, classify(err, "failed to list repositories")
		}
		for _, repo := range repos {
			refs = append(refs, model.RepoRef{
				Owner: repo.GetOwner().GetLogin(),
				Name:  repo.GetName(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

// GetListing returns the root and .github/workflows file listings for a
// repository. A missing workflow directory is an empty listing, not an
// error; any failure on the root listing is surfaced, with 401/403/404
// classified as access denied.
func (c *client) GetListing(ctx context.Context, repo model.RepoRef) (*model.RepoListing, error) {
	rootFiles, err := c.listDir(ctx, repo, "")
	if err != nil {
		return nil, classify(err, "failed to list repository root", goerr.V("repo", repo.String()))
	}

	workflowFiles, err := c.listDir(ctx, repo, ".github/workflows")
	if err != nil {
		if !isNotFound(err) {
			return nil, classify(err, "failed to list workflow directory", goerr.V("repo", repo.String()))
		}
		workflowFiles = nil
	}

	return &model.RepoListing{
		RootFiles:     rootFiles,
		WorkflowFiles: workflowFiles,
	}, nil
}

// listDir returns the file names in a repository directory
func (c *client) listDir(ctx context.Context, repo model.RepoRef, path string) ([]string, error) {
	_, entries, _, err := c.githubClient.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, nil)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.GetType() == "file" {
			names = append(names, entry.GetName())
		}
	}
	return names, nil
}

// isNotFound reports whether the error is a GitHub 404
func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

// classify translates a GitHub API failure into the error taxonomy. A token
// without access sees 404 for denied repositories, so 404 on a direct lookup
// classifies as access denied too.
func classify(err error, msg string, values ...goerr.Option) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			opts := append([]goerr.Option{goerr.T(types.TagAccessDenied)}, values...)
			return goerr.Wrap(err, "repository access denied", opts...)
		}
	}
	return goerr.Wrap(err, msg, values...)
}
