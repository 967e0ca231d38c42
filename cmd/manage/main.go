package main

import (
	"context"
	"fmt"
	"os"

	"go-mailing-api/src/infrastructure/cli"
	"go-mailing-api/src/infrastructure/di"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/utils"
)

func main() {
	if err := utils.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = loggerInstance.Log.Sync()
	}()

	appContext, err := di.SetupDependencies(loggerInstance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing application context: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Mailings: appContext.MailingUseCase,
		Users:    appContext.UserUseCase,
		Groups:   appContext.PermissionUseCase,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
