package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cropcare/internal/admin"
	"github.com/dmitrijs2005/cropcare/internal/buildinfo"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	app, err := admin.NewApp(cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
