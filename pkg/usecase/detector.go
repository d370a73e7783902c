package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-ohira/custodian/pkg/domain/model"
)

//go:embed templates/readme.md
var readmeTemplateRaw string

//go:embed templates/license.md
var licenseTemplateRaw string

//go:embed templates/gitignore.md
var gitignoreTemplateRaw string

//go:embed templates/workflows.md
var workflowsTemplateRaw string

// descriptionData is the data rendered into the description templates
type descriptionData struct {
	Repository   string
	BuildCommand string
	TestCommand  string
}

// artifactCheck is one entry of the audit checklist
type artifactCheck struct {
	kind      model.ArtifactKind
	label     string
	satisfied func(listing *model.RepoListing) bool
	template  *template.Template
}

// File names that satisfy each artifact. Matching is exact-name after
// lower-casing, not pattern-based.
var (
	readmeNames  = []string{"readme.md", "readme.txt", "readme"}
	licenseNames = []string{"license", "license.md", "license.txt", "copying"}
)

// checklist order is fixed so repeated runs over unchanged input produce the
// identical finding sequence
var checklist = []artifactCheck{
	{
		kind:      model.ArtifactReadme,
		label:     "README",
		satisfied: hasAnyRootFile(readmeNames),
		template:  template.Must(template.New("readme").Parse(readmeTemplateRaw)),
	},
	{
		kind:      model.ArtifactLicense,
		label:     "LICENSE",
		satisfied: hasAnyRootFile(licenseNames),
		template:  template.Must(template.New("license").Parse(licenseTemplateRaw)),
	},
	{
		kind:      model.ArtifactGitignore,
		label:     ".gitignore",
		satisfied: hasAnyRootFile([]string{".gitignore"}),
		template:  template.Must(template.New("gitignore").Parse(gitignoreTemplateRaw)),
	},
	{
		kind:      model.ArtifactWorkflows,
		label:     "CI workflows",
		satisfied: func(listing *model.RepoListing) bool { return len(listing.WorkflowFiles) > 0 },
		template:  template.Must(template.New("workflows").Parse(workflowsTemplateRaw)),
	},
}

func hasAnyRootFile(names []string) func(listing *model.RepoListing) bool {
	return func(listing *model.RepoListing) bool {
		for _, f := range listing.RootFiles {
			lowered := strings.ToLower(f)
			for _, name := range names {
				if lowered == name {
					return true
				}
			}
		}
		return false
	}
}

// DetectFindings checks the repository listings against the audit checklist
// and returns at most one finding per missing artifact, in checklist order
// (README, LICENSE, .gitignore, CI workflows). Pure function of its inputs.
func DetectFindings(repo model.RepoRef, listing *model.RepoListing) []model.Finding {
	build, test := inferCommands(listing.RootFiles)
	data := descriptionData{
		Repository:   repo.String(),
		BuildCommand: build,
		TestCommand:  test,
	}

	var findings []model.Finding
	for _, check := range checklist {
		if check.satisfied(listing) {
			continue
		}

		var buf bytes.Buffer
		// Static templates over a fixed struct; Execute cannot fail here.
		_ = check.template.Execute(&buf, data)

		findings = append(findings, model.Finding{
			Kind:        check.kind,
			Summary:     fmt.Sprintf("Missing %s in %s", check.label, repo),
			Description: buf.String(),
		})
	}

	return findings
}

// inferCommands guesses build and test commands from well-known manifest
// files at the repository root. Unknown toolchains yield empty strings.
func inferCommands(rootFiles []string) (build, test string) {
	files := make(map[string]bool, len(rootFiles))
	for _, f := range rootFiles {
		files[strings.ToLower(f)] = true
	}

	switch {
	case files["go.mod"]:
		return "go build ./...", "go test ./..."
	case files["package.json"]:
		return "npm install && npm run build", "npm test"
	case files["cargo.toml"]:
		return "cargo build", "cargo test"
	case files["pom.xml"]:
		return "mvn package", "mvn test"
	case files["pyproject.toml"], files["requirements.txt"]:
		return "pip install -e .", "pytest"
	case files["makefile"]:
		return "make", "make test"
	}

	return "", ""
}
