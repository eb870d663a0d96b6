package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faceclock",
	Short: "Face recognition attendance engine",
	Long: `FaceClock records employee attendance by face recognition.
It matches faces against registered employees using a detection sidecar,
stores an evidentiary crop for every event and keeps attendance logs in
PostgreSQL or an embedded SQLite database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
