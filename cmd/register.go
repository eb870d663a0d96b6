package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsetina/faceclock/internal/attendance"
	"github.com/jsetina/faceclock/internal/config"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [image]",
	Short: "Register an employee from a photo",
	Long: `Register a new employee from a photo containing their face.

Example:
  faceclock register photo.jpg --name "Alice Novak" --department Engineering --position Developer`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "Employee name (required)")
	registerCmd.Flags().String("department", "", "Department")
	registerCmd.Flags().String("position", "", "Position")
	registerCmd.MarkFlagRequired("name")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	if name == "" {
		return errors.New("--name must not be empty")
	}

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
	if _, err := recorder.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("loading face encodings: %w", err)
	}

	outcome, err := recorder.Register(cmd.Context(), imageData,
		name, mustGetString(cmd, "department"), mustGetString(cmd, "position"))
	if err != nil {
		return fmt.Errorf("registering %s: %w", name, err)
	}

	if outcome.Status == attendance.StatusNoFace {
		return fmt.Errorf("no face detected in %s", args[0])
	}

	fmt.Printf("Registered %s (%d known faces)\n", name, recorder.KnownFaces())
	return nil
}
