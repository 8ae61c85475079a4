// Command catalog-api serves the movie catalog and favorites API.
//
//	@title						Movie Catalog API
//	@version					1.0
//	@description				Accounts, session tokens and per-user movie favorites.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
	"github.com/cinefavs/catalog-api/pkg/logger"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "catalog-api",
	Short:        "Movie catalog favorites API",
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("catalog-api version %s\n", version))

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Options{
		Service: "catalog-api",
		Version: version,
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
	})
}
