package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"aquatech-web/internal/catalog"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/model"
	"aquatech-web/internal/repository/unitofwork"
	"aquatech-web/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dsn     string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the AquaTech product catalog",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dsn == "" {
			dsn = os.Getenv("DB_CONNECTION_STRING")
		}
		if dsn == "" {
			return errors.New("DB_CONNECTION_STRING is not set and --dsn was not given")
		}
		return nil
	},
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string (defaults to DB_CONNECTION_STRING)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newListCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("catalog: %v", err)
		os.Exit(1)
	}
}

func connect() (*gorm.DB, error) {
	db, err := database.NewGormDBFromDSN(dsn, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the products table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}

			color.Yellow("Running AutoMigrate for products...")
			if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
				color.Yellow("Warn: Failed to enable pgcrypto: %v. Continuing...", err)
			}
			if err := db.AutoMigrate(&model.Product{}); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			color.Green("✅ Migration complete")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert products from a catalog file or the bundled catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := loadProducts(file)
			if err != nil {
				return err
			}

			db, err := connect()
			if err != nil {
				return err
			}

			n, err := catalog.Seed(cmd.Context(), unitofwork.NewRepositoryFactory(db), products)
			if err != nil {
				return err
			}
			color.Green("✅ Seeded %d products", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog file (defaults to the bundled catalog)")
	return cmd
}

func loadProducts(file string) ([]*entity.Product, error) {
	if file == "" {
		return catalog.Bundled()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Load(f)
}

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the published products",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}

			uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(cmd.Context())
			products, total, err := uow.ProductRepository().Search(cmd.Context(), entity.ProductQuery{
				Category: category,
				Page:     1,
				PageSize: 100,
			})
			if err != nil {
				return err
			}

			heading := color.New(color.FgCyan, color.Bold)
			heading.Printf("%d products\n", total)
			for _, p := range products {
				fmt.Printf("  %s  %s  %s\n",
					color.YellowString("%-20s", p.ModelId),
					p.Name,
					color.GreenString(p.DisplayPrice()),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list one category")
	return cmd
}
