package cmd

import (
	"fmt"
	"os"

	"github.com/jsetina/faceclock/internal/attendance"
	"github.com/jsetina/faceclock/internal/config"
	"github.com/spf13/cobra"
)

var attendCmd = &cobra.Command{
	Use:   "attend [image]",
	Short: "Record attendance from a photo",
	Long: `Run the recognition flow on a photo and record an attendance event
for the first registered employee found in it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)
}

func runAttend(cmd *cobra.Command, args []string) error {
	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
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

	loaded, err := recorder.Reload(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading face encodings: %w", err)
	}
	if loaded == 0 {
		return fmt.Errorf("no registered employees, run 'faceclock register' first")
	}

	outcome, err := recorder.Record(cmd.Context(), imageData)
	if err != nil {
		return fmt.Errorf("recording attendance: %w", err)
	}

	switch outcome.Status {
	case attendance.StatusRecorded:
		fmt.Printf("Recorded %s (%s) at %s %s\n",
			outcome.Employee.Name, outcome.Employee.Department, outcome.Date, outcome.Time)
		fmt.Printf("Evidence: %s\n", outcome.ImagePath)
	case attendance.StatusNoFace:
		fmt.Println("No face detected")
	case attendance.StatusNotRecognized:
		fmt.Println("Face not recognized")
	}
	return nil
}
