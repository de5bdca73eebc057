package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/database"
	"github.com/saturnino-fabrica-de-software/facegate/internal/photostore"
)

// cleardb wipes every account, its login history and its stored photo.
// Development tool; refuses to run without explicit confirmation.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.IsProduction() {
		return fmt.Errorf("refusing to clear a production database")
	}

	if !*yes && !confirm() {
		log.Println("Aborted.")
		return nil
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	photos, err := photostore.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create photo store: %w", err)
	}

	// Collect photo paths before the rows go away.
	rows, err := pool.Query(ctx, `SELECT photo_path FROM accounts WHERE photo_path IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan photo path: %w", err)
		}
		paths = append(paths, path)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	// login_history cascades with accounts.
	tag, err := pool.Exec(ctx, `DELETE FROM accounts`)
	if err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	log.Printf("Deleted %d accounts (history cascaded)\n", tag.RowsAffected())

	var removed int
	for _, path := range paths {
		if err := photos.Delete(ctx, path); err != nil {
			log.Printf("warning: could not remove photo %s: %v\n", path, err)
			continue
		}
		removed++
	}
	log.Printf("Removed %d of %d photos\n", removed, len(paths))

	return nil
}

func confirm() bool {
	fmt.Print("This deletes ALL accounts, login history and photos. Type 'yes' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(answer) == "yes"
}
