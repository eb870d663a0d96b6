package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsetina/faceclock/internal/attendance"
	"github.com/jsetina/faceclock/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [directory]",
	Short: "Bulk register employees from a directory of photos",
	Long: `Register every photo in a directory as an employee. The employee name
is derived from the file name, with underscores replaced by spaces:

  alice_novak.jpg   -> "alice novak"

Photos where no face is detected are skipped and reported at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("department", "", "Department for all imported employees")
	importCmd.Flags().String("position", "", "Position for all imported employees")
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".bmp":
		return true
	}
	return false
}

func nameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}

func runImport(cmd *cobra.Command, args []string) error {
	department := mustGetString(cmd, "department")
	position := mustGetString(cmd, "position")

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			files = append(files, filepath.Join(args[0], entry.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files in %s", args[0])
	}

	cfg := config.Load()
	db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	recorder, err := newRecorder(cfg, db)
	if err != nil {
		return err
	}
	if _, err := recorder.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("loading face encodings: %w", err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Registering"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	var skipped []string
	registered := 0
	for _, file := range files {
		imageData, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		outcome, err := recorder.Register(cmd.Context(), imageData, nameFromFile(file), department, position)
		if err != nil {
			return fmt.Errorf("registering %s: %w", file, err)
		}
		if outcome.Status == attendance.StatusNoFace {
			skipped = append(skipped, file)
		} else {
			registered++
		}
		bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("Registered %d employees (%d known faces)\n", registered, recorder.KnownFaces())
	for _, file := range skipped {
		fmt.Printf("Skipped %s: no face detected\n", file)
	}
	return nil
}
