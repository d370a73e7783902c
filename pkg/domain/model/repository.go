package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RepoRef identifies a repository on the code host
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/name" form of the reference
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses an "owner/name" string into a RepoRef
func ParseRepoRef(s string) (RepoRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, goerr.New("repository must be in owner/name form", goerr.V("input", s))
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// RepoListing holds the file name listings the detector consumes.
// WorkflowFiles is empty when the workflow directory does not exist.
type RepoListing struct {
	RootFiles     []string // file names at the repository root
	WorkflowFiles []string // file names under .github/workflows
}
