// Command seed populates the store with generated demo workout history.
// Repeat runs with the same tag replace the prior batch instead of piling
// up duplicates. With -archive, the outgoing batch is exported to the
// configured S3 bucket before deletion.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"workout-tracker/internal/config"
	"workout-tracker/internal/repository"
	mongorepo "workout-tracker/internal/repository/mongo"
	"workout-tracker/internal/seed"
	"workout-tracker/internal/storage"
)

func main() {
	days := flag.Int("days", seed.DefaultWindowDays, "days of history to generate")
	tag := flag.String("tag", "demo", "batch tag; a rerun deletes the prior batch with this tag")
	private := flag.Bool("private", false, "generate private instead of public sessions")
	rngSeed := flag.Int64("seed", time.Now().UnixNano(), "random seed, for reproducible batches")
	adminKey := flag.String("admin-key", "", "admin key, required when seeding is disabled in config")
	archive := flag.Bool("archive", false, "archive the outgoing batch to S3 before deleting it")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if err := authorize(cfg.Seed, *adminKey); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	repo := mongorepo.NewMongoSessionRepository(dbClient.Database(cfg.Database.Name))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *archive {
		if err := archiveBatch(ctx, cfg, repo, *tag); err != nil {
			log.Fatalf("FATAL: Archiving batch %q failed: %v", *tag, err)
		}
	}

	runner := seed.NewRunner(repo, seed.NewGenerator(*rngSeed))
	inserted, removed, err := runner.Run(ctx, seed.DefaultPersonas(), seed.Options{
		WindowDays: *days,
		Tag:        *tag,
		Public:     !*private,
	})
	if err != nil {
		log.Fatalf("FATAL: Seeding failed: %v", err)
	}
	log.Printf("Seeded %d sessions (removed %d from prior batch %q).", inserted, removed, *tag)
}

// authorize refuses a run when seeding is disabled, unless a matching
// admin key is supplied.
func authorize(cfg config.SeedConfig, adminKey string) error {
	if cfg.Enabled {
		return nil
	}
	if cfg.AdminKeyHash == "" {
		return fmt.Errorf("seeding is disabled (set SEED_ENABLED=true or configure SEED_ADMIN_KEY_HASH)")
	}
	if bcrypt.CompareHashAndPassword([]byte(cfg.AdminKeyHash), []byte(adminKey)) != nil {
		return fmt.Errorf("seeding is disabled and the admin key does not match")
	}
	return nil
}

// archiveBatch exports the current batch with the given tag as one JSON
// object, so a bad reseed can be recovered.
func archiveBatch(ctx context.Context, cfg config.Config, repo repository.SessionRepository, tag string) error {
	if cfg.S3.BucketName == "" {
		return fmt.Errorf("s3.bucket_name is not configured")
	}
	sessions, err := repo.ListBySeedTag(ctx, tag)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		log.Printf("No sessions tagged %q; nothing to archive.", tag)
		return nil
	}

	body, err := json.Marshal(sessions)
	if err != nil {
		return err
	}

	store, err := storage.NewS3Store(cfg.S3)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("seed-archives/%s/%s.json", tag, uuid.NewString())
	if err := store.Put(ctx, key, "application/json", body); err != nil {
		return err
	}
	log.Printf("Archived %d sessions to %s.", len(sessions), key)
	return nil
}
