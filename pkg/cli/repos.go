package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/cli/config"
	githubinfra "github.com/m-ohira/custodian/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

func cmdRepos() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:  "repos",
		Usage: "List repositories accessible with the configured token",
		Flags: githubCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			lister := githubinfra.NewClient(githubCfg.Token)

			refs, err := lister.ListRepositories(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list repositories")
			}

			for _, ref := range refs {
				fmt.Println(ref.String())
			}
			return nil
		},
	}
}
