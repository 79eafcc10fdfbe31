package cli

import (
	"fmt"
	"log"

	"github.com/athomax/shorturl/cmd"
	"github.com/athomax/shorturl/internal/config"
	"github.com/athomax/shorturl/internal/repository"
	"github.com/athomax/shorturl/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	urlFlag  string
	slugFlag string
)

// CreateCmd shortens a URL from the command line.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a short slug for a long URL.",
	Long: `Shortens the given URL and prints the resulting slug. A custom slug
can be requested with --slug; otherwise a random one is generated.

Example:
  shorturl create --url="https://www.example.com/some/long/path"
  shorturl create --url="https://example.com" --slug="docs"`,
	Run: func(cobraCmd *cobra.Command, args []string) {
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
		allocator := services.NewSlugAllocator(mappingRepo)

		mapping, err := allocator.Allocate(slugFlag, urlFlag)
		if err != nil {
			log.Fatalf("Failed to create short link: %v", err)
		}

		fmt.Printf("Short URL created:\n")
		fmt.Printf("Slug: %s\n", mapping.Slug)
		fmt.Printf("Full URL: %s/%s\n", cfg.Server.BaseURL, mapping.Slug)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&urlFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&slugFlag, "slug", "", "Optional custom slug")
	CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}
