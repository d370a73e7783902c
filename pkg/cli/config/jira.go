package config

import "github.com/urfave/cli/v3"

// Jira holds ticket tracker configuration
type Jira struct {
	BaseURL   string
	Email     string
	APIToken  string
	Project   string
	IssueType string
}

// Flags returns CLI flags for Jira configuration
func (c *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Jira instance base URL",
			Required:    true,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("CUSTODIAN_JIRA_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Jira account email",
			Required:    true,
			Destination: &c.Email,
			Sources:     cli.EnvVars("CUSTODIAN_JIRA_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token",
			Required:    true,
			Destination: &c.APIToken,
			Sources:     cli.EnvVars("CUSTODIAN_JIRA_API_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "jira-project",
			Usage:       "Project key new tickets are filed under",
			Required:    true,
			Destination: &c.Project,
			Sources:     cli.EnvVars("CUSTODIAN_JIRA_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "jira-issue-type",
			Usage:       "Issue type for created tickets",
			Value:       "Task",
			Destination: &c.IssueType,
			Sources:     cli.EnvVars("CUSTODIAN_JIRA_ISSUE_TYPE"),
		},
	}
}
