package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-ohira/custodian/pkg/domain/model"
)

//go:embed prompts/workflow_suggestion.md
var workflowSystemPrompt string

// workflowSuggestion is the JSON shape the model responds with
type workflowSuggestion struct {
	Summary  string `json:"summary"`
	Workflow string `json:"workflow"`
}

// Describer enriches the missing-CI-workflows ticket description with a
// drafted starter workflow. It is optional; detection itself never consults
// the model.
type Describer struct {
	llmClient gollem.LLMClient
}

// NewDescriber creates a Describer backed by the given LLM client
func NewDescriber(llmClient gollem.LLMClient) *Describer {
	return &Describer{llmClient: llmClient}
}

// EnrichWorkflowFinding appends a suggested workflow to the finding's
// description. Enrichment is best-effort: on any model failure the finding
// is returned unchanged and the error is logged, never propagated.
func (d *Describer) EnrichWorkflowFinding(ctx context.Context, finding model.Finding, listing *model.RepoListing) model.Finding {
	logger := ctxlog.From(ctx)

	if finding.Kind != model.ArtifactWorkflows {
		return finding
	}

	suggestion, err := d.suggestWorkflow(ctx, finding, listing)
	if err != nil {
		logger.Warn("Skipping workflow suggestion", "error", err, "summary", finding.Summary)
		return finding
	}

	finding.Description = fmt.Sprintf("%s\n\nSuggested starter workflow (%s):\n\n{code}\n%s\n{code}",
		finding.Description,
		suggestion.Summary,
		strings.TrimSpace(suggestion.Workflow),
	)
	return finding
}

func (d *Describer) suggestWorkflow(ctx context.Context, finding model.Finding, listing *model.RepoListing) (*workflowSuggestion, error) {
	userPrompt := fmt.Sprintf("Repository: %s\nRoot files:\n%s",
		finding.Summary,
		strings.Join(listing.RootFiles, "\n"),
	)

	session, err := d.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionSystemPrompt(workflowSystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate workflow suggestion")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("no response from LLM")
	}

	var suggestion workflowSuggestion
	if err := json.Unmarshal([]byte(resp.Texts[0]), &suggestion); err != nil {
		return nil, goerr.Wrap(err, "failed to parse workflow suggestion", goerr.V("response", resp.Texts[0]))
	}
	if suggestion.Workflow == "" {
		return nil, goerr.New("empty workflow in suggestion")
	}

	return &suggestion, nil
}
