package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/usecase"
)

func TestDetectFindings(t *testing.T) {
	repo := model.RepoRef{Owner: "acme", Name: "widgets"}

	tests := []struct {
		name      string
		listing   model.RepoListing
		wantKinds []model.ArtifactKind
	}{
		{
			name: "Everything present",
			listing: model.RepoListing{
				RootFiles:     []string{"README.md", "LICENSE", ".gitignore", "main.go"},
				WorkflowFiles: []string{"ci.yml"},
			},
			wantKinds: nil,
		},
		{
			name: "Everything missing",
			listing: model.RepoListing{
				RootFiles: []string{"main.go"},
			},
			wantKinds: []model.ArtifactKind{
				model.ArtifactReadme,
				model.ArtifactLicense,
				model.ArtifactGitignore,
				model.ArtifactWorkflows,
			},
		},
		{
			name: "Upper-case names satisfy checks",
			listing: model.RepoListing{
				RootFiles:     []string{"ReadMe.MD", "COPYING", ".gitignore"},
				WorkflowFiles: []string{"Test.YAML"},
			},
			wantKinds: nil,
		},
		{
			name: "Prefix names do not satisfy checks",
			listing: model.RepoListing{
				RootFiles:     []string{"README.rst", "LICENSE-APACHE.json", "gitignore"},
				WorkflowFiles: []string{"ci.yml"},
			},
			wantKinds: []model.ArtifactKind{
				model.ArtifactReadme,
				model.ArtifactLicense,
				model.ArtifactGitignore,
			},
		},
		{
			name: "Only workflows missing",
			listing: model.RepoListing{
				RootFiles: []string{"readme", "license.txt", ".gitignore"},
			},
			wantKinds: []model.ArtifactKind{model.ArtifactWorkflows},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := usecase.DetectFindings(repo, &tt.listing)

			gt.Number(t, len(findings)).Equal(len(tt.wantKinds))
			for i, finding := range findings {
				gt.Value(t, finding.Kind).Equal(tt.wantKinds[i])
				gt.String(t, finding.Summary).Contains("acme/widgets")
				gt.Value(t, finding.Description).NotEqual("")
			}
		})
	}
}

func TestDetectFindings_Deterministic(t *testing.T) {
	repo := model.RepoRef{Owner: "acme", Name: "widgets"}
	listing := &model.RepoListing{RootFiles: []string{"app.js"}}

	first := usecase.DetectFindings(repo, listing)
	second := usecase.DetectFindings(repo, listing)

	gt.Value(t, second).Equal(first)
}

func TestDetectFindings_ExampleScenario(t *testing.T) {
	repo := model.RepoRef{Owner: "acme", Name: "widgets"}
	listing := &model.RepoListing{
		RootFiles:     []string{"app.js", ".gitignore"},
		WorkflowFiles: nil,
	}

	findings := usecase.DetectFindings(repo, listing)

	gt.Number(t, len(findings)).Equal(3)
	gt.Value(t, findings[0].Kind).Equal(model.ArtifactReadme)
	gt.Value(t, findings[1].Kind).Equal(model.ArtifactLicense)
	gt.Value(t, findings[2].Kind).Equal(model.ArtifactWorkflows)
	gt.Value(t, findings[0].Summary).Equal("Missing README in acme/widgets")
}

func TestDetectFindings_InferredCommands(t *testing.T) {
	repo := model.RepoRef{Owner: "acme", Name: "widgets"}

	t.Run("Go toolchain", func(t *testing.T) {
		listing := &model.RepoListing{RootFiles: []string{"go.mod", "main.go"}}
		findings := usecase.DetectFindings(repo, listing)

		workflows := findings[len(findings)-1]
		gt.Value(t, workflows.Kind).Equal(model.ArtifactWorkflows)
		gt.String(t, workflows.Description).Contains("go build ./...")
		gt.String(t, workflows.Description).Contains("go test ./...")
	})

	t.Run("Unknown toolchain omits commands", func(t *testing.T) {
		listing := &model.RepoListing{RootFiles: []string{"data.csv"}}
		findings := usecase.DetectFindings(repo, listing)

		workflows := findings[len(findings)-1]
		gt.Value(t, workflows.Kind).Equal(model.ArtifactWorkflows)
		gt.Value(t, len(workflows.Description) > 0).Equal(true)
		gt.String(t, workflows.Description).NotContains("Detected build command")
	})
}
