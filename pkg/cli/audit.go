package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-ohira/custodian/pkg/cli/config"
	"github.com/m-ohira/custodian/pkg/controller/prompt"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
	githubinfra "github.com/m-ohira/custodian/pkg/infra/github"
	jirainfra "github.com/m-ohira/custodian/pkg/infra/jira"
	"github.com/m-ohira/custodian/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdAudit() *cli.Command {
	var (
		githubCfg config.GitHub
		jiraCfg   config.Jira
		geminiCfg config.Gemini

		repoArg        string
		matchArg       string
		nonInteractive bool
		fallback       string
	)

	flags := append(githubCfg.Flags(), jiraCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository to audit (owner/name)",
			Required:    true,
			Destination: &repoArg,
		},
		&cli.StringFlag{
			Name:        "match",
			Usage:       "Duplicate match strategy (contains, exact)",
			Value:       "contains",
			Destination: &matchArg,
			Sources:     cli.EnvVars("CUSTODIAN_MATCH"),
		},
		&cli.BoolFlag{
			Name:        "non-interactive",
			Usage:       "Never prompt; recover with --fallback-project instead",
			Destination: &nonInteractive,
			Sources:     cli.EnvVars("CUSTODIAN_NON_INTERACTIVE"),
		},
		&cli.StringFlag{
			Name:        "fallback-project",
			Usage:       "Replacement project key for non-interactive recovery",
			Destination: &fallback,
			Sources:     cli.EnvVars("CUSTODIAN_FALLBACK_PROJECT"),
		},
	)

	return &cli.Command{
		Name:    "audit",
		Aliases: []string{"a"},
		Usage:   "Audit one repository and reconcile tickets for missing artifacts",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			repo, err := model.ParseRepoRef(repoArg)
			if err != nil {
				return err
			}

			match, err := usecase.MatcherFor(matchArg)
			if err != nil {
				return err
			}

			store, err := jirainfra.NewClient(
				jiraCfg.BaseURL, jiraCfg.Email, jiraCfg.APIToken,
				jirainfra.WithIssueType(jiraCfg.IssueType),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create ticket store")
			}

			var resolver interfaces.CollectionResolver
			if nonInteractive {
				resolver = prompt.NewStaticResolver(store, fallback)
			} else {
				resolver = prompt.NewResolver(store, os.Stdin, os.Stderr)
			}

			lister := githubinfra.NewClient(githubCfg.Token)
			reconciler := usecase.NewReconciler(store, resolver, usecase.WithMatcher(match))

			var opts []usecase.AuditOption
			if geminiCfg.Enabled() {
				llmClient, err := gemini.New(ctx, geminiCfg.ProjectID, geminiCfg.Location,
					gemini.WithModel(geminiCfg.Model))
				if err != nil {
					return goerr.Wrap(err, "failed to create Gemini client")
				}
				opts = append(opts, usecase.WithDescriber(usecase.NewDescriber(llmClient)))
			}

			uc := usecase.NewAudit(lister, reconciler, jiraCfg.Project, opts...)

			result, runErr := uc.Run(ctx, repo)
			if result != nil {
				reportOutcomes(result)
			}
			if runErr != nil {
				logger.Error("Audit failed", "repo", repo.String(), "error", runErr)
				return runErr
			}

			return nil
		},
	}
}

// reportOutcomes prints one line per finding to stdout. Abandoned findings
// report the underlying error, not a generic failure.
func reportOutcomes(result *model.ReconcileResult) {
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case model.OutcomeAbandoned:
			fmt.Printf("%s\t%s\t%v\n", outcome.Status, outcome.Finding.Summary, outcome.Err)
		default:
			fmt.Printf("%s\t%s\t%s\n", outcome.Status, outcome.Finding.Summary, outcome.TicketKey)
		}
	}
}
