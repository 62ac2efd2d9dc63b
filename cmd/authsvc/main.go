// Command authsvc runs the account and session service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/authsvc/app"
	"github.com/kbukum/authsvc/config"
	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: cmd/authsvc/config.yml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := app.Load(opts...)
	if err != nil {
		logger.Fatal("Failed to load configuration", logger.ErrorFields("load_config", err))
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("Failed to create application", logger.ErrorFields("new_app", err))
	}
	if err := a.Run(context.Background()); err != nil {
		a.Logger.Error("Application stopped with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}
