package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	mcpcontroller "github.com/m-ohira/custodian/pkg/controller/mcp"
	"github.com/m-ohira/custodian/pkg/domain/model"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeLister serves canned listings
type fakeLister struct {
	repos   []model.RepoRef
	listing *model.RepoListing
}

func (f *fakeLister) ListRepositories(ctx context.Context) ([]model.RepoRef, error) {
	return f.repos, nil
}

func (f *fakeLister) GetListing(ctx context.Context, repo model.RepoRef) (*model.RepoListing, error) {
	return f.listing, nil
}

// fakeStore creates tickets with sequential keys and never matches searches
type fakeStore struct {
	created int
}

func (f *fakeStore) Search(ctx context.Context, collection, summary string) ([]model.Ticket, error) {
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, collection string, finding model.Finding) (*model.Ticket, error) {
	f.created++
	return &model.Ticket{Key: fmt.Sprintf("OPS-%d", f.created)}, nil
}

func (f *fakeStore) Update(ctx context.Context, key string, finding model.Finding) (*model.Ticket, error) {
	return nil, errors.New("not expected")
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]model.Collection, error) {
	return []model.Collection{{Key: "OPS", Name: "Operations"}}, nil
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpcontroller.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		for _, c := range res.Content {
			if tc, ok := c.(*sdkmcp.TextContent); ok {
				t.Fatalf("CallTool(%s) returned error: %s", name, tc.Text)
			}
		}
		t.Fatalf("CallTool(%s) returned error", name)
	}
	result := make(map[string]any)
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), &result); err != nil {
				t.Fatalf("unmarshal tool result: %v (text: %s)", err, tc.Text)
			}
			return result
		}
	}
	t.Fatalf("no text content in tool result")
	return nil
}

func TestServer_ListRepositories(t *testing.T) {
	ctx := context.Background()

	lister := &fakeLister{repos: []model.RepoRef{
		{Owner: "acme", Name: "widgets"},
		{Owner: "acme", Name: "gadgets"},
	}}
	store := &fakeStore{}
	srv := mcpcontroller.NewServer(lister, store, store, "OPS")
	session := connectInMemory(t, ctx, srv)

	result := callTool(t, ctx, session, "list_repositories", map[string]any{})

	repos, ok := result["repositories"].([]any)
	if !ok {
		t.Fatalf("unexpected repositories payload: %v", result)
	}
	if len(repos) != 2 || repos[0] != "acme/widgets" {
		t.Errorf("repositories = %v", repos)
	}
}

func TestServer_InspectRepository(t *testing.T) {
	ctx := context.Background()

	lister := &fakeLister{listing: &model.RepoListing{
		RootFiles:     []string{"app.js", ".gitignore"},
		WorkflowFiles: nil,
	}}
	store := &fakeStore{}
	srv := mcpcontroller.NewServer(lister, store, store, "OPS")
	session := connectInMemory(t, ctx, srv)

	result := callTool(t, ctx, session, "inspect_repository", map[string]any{
		"repository": "acme/widgets",
	})

	findings, ok := result["findings"].([]any)
	if !ok {
		t.Fatalf("unexpected findings payload: %v", result)
	}
	if len(findings) != 3 {
		t.Fatalf("findings = %v, want 3 entries", findings)
	}

	first, ok := findings[0].(map[string]any)
	if !ok || first["summary"] != "Missing README in acme/widgets" {
		t.Errorf("first finding = %v", findings[0])
	}

	// Inspection is read-only.
	if store.created != 0 {
		t.Errorf("inspect created %d tickets", store.created)
	}
}

func TestServer_ReconcileRepository(t *testing.T) {
	ctx := context.Background()

	lister := &fakeLister{listing: &model.RepoListing{
		RootFiles: []string{"app.js", ".gitignore"},
	}}
	store := &fakeStore{}
	srv := mcpcontroller.NewServer(lister, store, store, "OPS")
	session := connectInMemory(t, ctx, srv)

	result := callTool(t, ctx, session, "reconcile_repository", map[string]any{
		"repository": "acme/widgets",
	})

	if result["collection"] != "OPS" {
		t.Errorf("collection = %v, want OPS", result["collection"])
	}

	outcomes, ok := result["outcomes"].([]any)
	if !ok || len(outcomes) != 3 {
		t.Fatalf("outcomes = %v, want 3 entries", result["outcomes"])
	}
	for _, raw := range outcomes {
		outcome, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("unexpected outcome payload: %v", raw)
		}
		if outcome["status"] != "created" {
			t.Errorf("status = %v, want created", outcome["status"])
		}
		if outcome["ticket_key"] == "" {
			t.Error("missing ticket key")
		}
	}
	if store.created != 3 {
		t.Errorf("created %d tickets, want 3", store.created)
	}
}
