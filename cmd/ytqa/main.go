// Command ytqa answers questions about YouTube videos from their transcripts.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/ytqa/internal/app"
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)
	os.Exit(cli.Execute())
}

func bootstrap(configPath string) (*cli.Services, error) {
	a, err := app.Build(app.Options{ConfigPath: configPath})
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Settings: a.Settings,
		Questions: func(ctx context.Context) (driving.QuestionService, error) {
			p, err := a.Pipeline(ctx)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		WatchPrompts: a.Prompts.Watch,
		Close:        a.Close,
	}, nil
}
