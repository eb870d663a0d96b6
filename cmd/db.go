package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/jsetina/faceclock/internal/attendance"
	"github.com/jsetina/faceclock/internal/config"
	"github.com/jsetina/faceclock/internal/database"
	"github.com/jsetina/faceclock/internal/database/postgres"
	"github.com/jsetina/faceclock/internal/database/sqlite"
	"github.com/jsetina/faceclock/internal/encodings"
	"github.com/jsetina/faceclock/internal/enhance"
	"github.com/jsetina/faceclock/internal/matcher"
	"github.com/jsetina/faceclock/internal/recognizer"
)

// openStore connects to PostgreSQL when DATABASE_URL is set, falling back to
// the embedded SQLite database when the server is unreachable. The backend
// choice is made once at startup.
func openStore(cfg *config.Config) (database.Store, error) {
	if cfg.Database.URL != "" {
		store, err := postgres.Open(&cfg.Database)
		if err == nil {
			fmt.Println("Using PostgreSQL backend")
			return store, nil
		}
		if !errors.Is(err, database.ErrConnection) {
			return nil, err
		}
		log.Printf("PostgreSQL unreachable, falling back to SQLite: %v", err)
	}

	store, err := sqlite.Open(cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using SQLite backend at %s\n", cfg.Database.SQLitePath)
	return store, nil
}

// newRecorder wires the recognition pipeline on top of an open store.
func newRecorder(cfg *config.Config, db database.Store) (*attendance.Recorder, error) {
	enc, err := encodings.NewStore(db, cfg.Storage.EncodingDir)
	if err != nil {
		return nil, err
	}

	m := matcher.New()
	rel := matcher.NewReloader(enc, m)

	return attendance.NewRecorder(
		db, enc, m, rel,
		recognizer.NewClient(cfg.Recognizer.URL),
		enhance.FromURL(cfg.Enhancer.URL),
		cfg.Storage.EvidenceDir,
		cfg.Recognition.Tolerance,
		cfg.Recognition.CropMargin,
		cfg.Recognition.EmbeddingDim,
	)
}
