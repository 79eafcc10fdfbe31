package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/athomax/shorturl/cmd"
	"github.com/athomax/shorturl/internal/config"
	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/repository"
	"github.com/athomax/shorturl/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// StatsCmd prints the click statistics for a slug.
var StatsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Shows click statistics for a slug",
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(cobraCmd *cobra.Command, args []string) {
	slug := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
	}
	defer sqlDB.Close()

	mappingRepo := repository.NewMappingRepository(db)
	resolver := services.NewRedirectResolver(mappingRepo, nil, nil)

	mapping, err := resolver.Lookup(slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrSlugNotFound) {
			fmt.Printf("Error: slug '%s' not found\n", slug)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Statistics for slug: %s\n", mapping.Slug)
	fmt.Printf("Target URL: %s\n", mapping.URL)
	fmt.Printf("Total clicks: %d\n", mapping.Clicks)
	fmt.Printf("Created at: %s\n", mapping.CreatedAt.Format("2006-01-02 15:04:05"))
}
