// Drops this environment's document tables so the next server start
// recreates them from scratch. Dev/test helper; never run against prod
// without meaning it.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		env := os.Getenv("ENVIRONMENT")
		switch env {
		case "prod":
			prefix = "prod_"
		case "test":
			prefix = "test_"
		default:
			prefix = "dev_"
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	dropSQL := fmt.Sprintf(`DROP TABLE IF EXISTS %sdocuments CASCADE;`, prefix)
	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("Tables dropped (prefix: %s)\n", prefix)
}
