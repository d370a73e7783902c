package model

// ArtifactKind identifies one entry of the audit checklist
type ArtifactKind string

const (
	ArtifactReadme    ArtifactKind = "readme"
	ArtifactLicense   ArtifactKind = "license"
	ArtifactGitignore ArtifactKind = "gitignore"
	ArtifactWorkflows ArtifactKind = "ci_workflows"
)

// Finding is a detected missing-artifact condition for a repository.
// Findings are immutable once produced; the detector emits at most one per
// artifact kind, in checklist order.
type Finding struct {
	Kind        ArtifactKind
	Summary     string // short title, unique per kind per repository
	Description string // longer explanation filed into the ticket body
}
