// Command server runs the certification showcase API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/certshowcase/internal/server"
	"github.com/dmitrijs2005/certshowcase/internal/server/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "certshowcase: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	app.Run(ctx)
	return nil
}
