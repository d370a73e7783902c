package mcp

import (
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-ohira/custodian/pkg/controller/prompt"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/domain/types"
	"github.com/m-ohira/custodian/pkg/usecase"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes the audit actions as MCP tools so external callers can
// invoke them individually. Replacement-project recovery uses a static
// fallback supplied per call; tools never block on interactive input.
type Server struct {
	MCPServer   *sdkmcp.Server
	lister      interfaces.RepositoryLister
	store       interfaces.TicketStore
	collections interfaces.CollectionLister
	collection  string
}

// NewServer creates an MCP server wired to the given collaborators.
// collection is the default target project for reconcile calls.
func NewServer(
	lister interfaces.RepositoryLister,
	store interfaces.TicketStore,
	collections interfaces.CollectionLister,
	collection string,
) *Server {
	s := &Server{
		lister:      lister,
		store:       store,
		collections: collections,
		collection:  collection,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "custodian", Version: types.Version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves the tools over stdio until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// Handler returns an HTTP handler serving the tools over the streamable
// HTTP transport
func (s *Server) Handler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.MCPServer
	}, nil)
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_repositories",
		Description: "List the repositories accessible with the configured credentials.",
	}, s.handleListRepositories)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "inspect_repository",
		Description: "List a repository's root and workflow files and report which required artifacts are missing. Read-only.",
	}, s.handleInspectRepository)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "reconcile_repository",
		Description: "Audit a repository and create or update one tracking ticket per missing artifact.",
	}, s.handleReconcileRepository)
}

// --- Tool input/output types ---

type listRepositoriesInput struct{}

type listRepositoriesOutput struct {
	Repositories []string `json:"repositories"`
}

type inspectRepositoryInput struct {
	Repository string `json:"repository" jsonschema:"repository in owner/name form"`
}

type findingPayload struct {
	Kind        string `json:"kind"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type inspectRepositoryOutput struct {
	RootFiles     []string         `json:"root_files"`
	WorkflowFiles []string         `json:"workflow_files"`
	Findings      []findingPayload `json:"findings"`
}

type reconcileRepositoryInput struct {
	Repository string `json:"repository" jsonschema:"repository in owner/name form"`
	Collection string `json:"collection,omitempty" jsonschema:"target project key (default: server configuration)"`
	Fallback   string `json:"fallback,omitempty" jsonschema:"replacement project key used if the target is rejected (default: first available project)"`
	Match      string `json:"match,omitempty" jsonschema:"duplicate match strategy: contains (default) or exact"`
}

type outcomePayload struct {
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	TicketKey string `json:"ticket_key,omitempty"`
	Error     string `json:"error,omitempty"`
}

type reconcileRepositoryOutput struct {
	Collection string           `json:"collection"`
	Outcomes   []outcomePayload `json:"outcomes"`
}

// --- Tool handlers ---

func (s *Server) handleListRepositories(ctx context.Context, req *sdkmcp.CallToolRequest, in listRepositoriesInput) (*sdkmcp.CallToolResult, listRepositoriesOutput, error) {
	refs, err := s.lister.ListRepositories(ctx)
	if err != nil {
		return nil, listRepositoriesOutput{}, err
	}

	out := listRepositoriesOutput{Repositories: make([]string, 0, len(refs))}
	for _, ref := range refs {
		out.Repositories = append(out.Repositories, ref.String())
	}
	return nil, out, nil
}

func (s *Server) handleInspectRepository(ctx context.Context, req *sdkmcp.CallToolRequest, in inspectRepositoryInput) (*sdkmcp.CallToolResult, inspectRepositoryOutput, error) {
	repo, err := model.ParseRepoRef(in.Repository)
	if err != nil {
		return nil, inspectRepositoryOutput{}, err
	}

	listing, err := s.lister.GetListing(ctx, repo)
	if err != nil {
		return nil, inspectRepositoryOutput{}, err
	}

	out := inspectRepositoryOutput{
		RootFiles:     listing.RootFiles,
		WorkflowFiles: listing.WorkflowFiles,
	}
	for _, finding := range usecase.DetectFindings(repo, listing) {
		out.Findings = append(out.Findings, findingPayload{
			Kind:        string(finding.Kind),
			Summary:     finding.Summary,
			Description: finding.Description,
		})
	}
	return nil, out, nil
}

func (s *Server) handleReconcileRepository(ctx context.Context, req *sdkmcp.CallToolRequest, in reconcileRepositoryInput) (*sdkmcp.CallToolResult, reconcileRepositoryOutput, error) {
	logger := ctxlog.From(ctx)

	repo, err := model.ParseRepoRef(in.Repository)
	if err != nil {
		return nil, reconcileRepositoryOutput{}, err
	}

	match, err := usecase.MatcherFor(in.Match)
	if err != nil {
		return nil, reconcileRepositoryOutput{}, err
	}

	collection := s.collection
	if in.Collection != "" {
		collection = in.Collection
	}

	resolver := prompt.NewStaticResolver(s.collections, in.Fallback)
	reconciler := usecase.NewReconciler(s.store, resolver, usecase.WithMatcher(match))
	uc := usecase.NewAudit(s.lister, reconciler, collection)

	result, err := uc.Run(ctx, repo)
	if err != nil {
		logger.Error("Reconcile run failed", "repo", repo.String(), "error", err)
		if result == nil {
			return nil, reconcileRepositoryOutput{}, err
		}
		// Partial results still report a terminal outcome per finding.
	}

	out := reconcileRepositoryOutput{Collection: result.Collection}
	for _, outcome := range result.Outcomes {
		payload := outcomePayload{
			Summary:   outcome.Finding.Summary,
			Status:    string(outcome.Status),
			TicketKey: outcome.TicketKey,
		}
		if outcome.Err != nil {
			payload.Error = outcome.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, payload)
	}
	return nil, out, nil
}
