package jira

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/domain/types"
)

// Client implements the ticket store and collection listing against a Jira
// instance. It is the only place provider failures are classified into the
// error taxonomy.
type Client struct {
	jiraClient *jira.Client
	issueType  string
}

var _ interfaces.TicketStore = (*Client)(nil)
var _ interfaces.CollectionLister = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithIssueType sets the issue type used for created tickets (default Task)
func WithIssueType(issueType string) Option {
	return func(c *Client) {
		c.issueType = issueType
	}
}

// NewClient creates a Jira client with basic auth (email + API token)
func NewClient(baseURL, username, apiToken string, opts ...Option) (*Client, error) {
	transport := jira.BasicAuthTransport{
		Username: username,
		Password: apiToken,
	}

	jiraClient, err := jira.NewClient(transport.Client(), baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Jira client", goerr.V("base_url", baseURL))
	}

	c := &Client{
		jiraClient: jiraClient,
		issueType:  "Task",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search returns tickets in the collection whose summary contains the given
// text. The JQL "~" operator is a loose text match; the reconciler applies
// its own matching strategy on top of this result.
func (c *Client) Search(ctx context.Context, collection, summary string) ([]model.Ticket, error) {
	jql := fmt.Sprintf("project = \"%s\" AND summary ~ \"%s\" ORDER BY created ASC",
		escapeJQL(collection), escapeJQL(summary))

	issues, resp, err := c.jiraClient.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{MaxResults: 50})
	if err != nil {
		return nil, c.classify(resp, err, "failed to search tickets")
	}

	tickets := make([]model.Ticket, 0, len(issues))
	for _, issue := range issues {
		ticket := model.Ticket{Key: issue.Key}
		if issue.Fields != nil {
			ticket.Summary = issue.Fields.Summary
			ticket.Description = issue.Fields.Description
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// Create files a new ticket for the finding under the collection
func (c *Client) Create(ctx context.Context, collection string, finding model.Finding) (*model.Ticket, error) {
	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     jira.Project{Key: collection},
			Type:        jira.IssueType{Name: c.issueType},
			Summary:     finding.Summary,
			Description: finding.Description,
		},
	}

	created, resp, err := c.jiraClient.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return nil, c.classify(resp, err, "failed to create ticket")
	}

	return &model.Ticket{
		Key:         created.Key,
		Summary:     finding.Summary,
		Description: finding.Description,
	}, nil
}

// Update rewrites the summary and description of an existing ticket
func (c *Client) Update(ctx context.Context, key string, finding model.Finding) (*model.Ticket, error) {
	issue := &jira.Issue{
		Key: key,
		Fields: &jira.IssueFields{
			Summary:     finding.Summary,
			Description: finding.Description,
		},
	}

	_, resp, err := c.jiraClient.Issue.UpdateWithContext(ctx, issue)
	if err != nil {
		return nil, c.classify(resp, err, "failed to update ticket")
	}

	return &model.Ticket{
		Key:         key,
		Summary:     finding.Summary,
		Description: finding.Description,
	}, nil
}

// ListCollections returns the projects browsable with the configured
// credentials
func (c *Client) ListCollections(ctx context.Context) ([]model.Collection, error) {
	projects, resp, err := c.jiraClient.Project.GetListWithContext(ctx)
	if err != nil {
		return nil, c.classify(resp, err, "failed to list projects")
	}

	collections := make([]model.Collection, 0, len(*projects))
	for _, project := range *projects {
		collections = append(collections, model.Collection{
			Key:  project.Key,
			Name: project.Name,
		})
	}
	return collections, nil
}

// classify maps a Jira API failure onto the error taxonomy. A rejected
// project field means the target collection is invalid; everything else is a
// plain store failure. Classification happens here once so nothing above
// this adapter inspects provider error text.
func (c *Client) classify(resp *jira.Response, err error, msg string) error {
	jerr := asJiraError(resp, err)
	if jerr != nil {
		if detail, ok := jerr.Errors["project"]; ok {
			return goerr.Wrap(err, "target project rejected by tracker",
				goerr.T(types.TagInvalidCollection), goerr.V("detail", detail))
		}
		for _, message := range jerr.ErrorMessages {
			if strings.Contains(strings.ToLower(message), "valid project") {
				return goerr.Wrap(err, "target project rejected by tracker",
					goerr.T(types.TagInvalidCollection), goerr.V("detail", message))
			}
		}
	}
	return goerr.Wrap(err, msg)
}

// asJiraError extracts the structured Jira error payload. Not every
// go-jira method wraps its error, so fall back to decoding the response
// body when the typed error is absent.
func asJiraError(resp *jira.Response, err error) *jira.Error {
	var jerr *jira.Error
	if errors.As(err, &jerr) {
		return jerr
	}
	if resp == nil {
		return nil
	}
	if errors.As(jira.NewJiraError(resp, err), &jerr) {
		return jerr
	}
	return nil
}

// escapeJQL escapes double quotes in a JQL string literal
func escapeJQL(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
