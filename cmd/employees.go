package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jsetina/faceclock/internal/config"
	"github.com/spf13/cobra"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List registered employees",
	RunE:  runEmployeesList,
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments",
	RunE:  runDepartmentsList,
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(departmentsCmd)
}

func runEmployeesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	employees, err := db.ListEmployees(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing employees: %w", err)
	}

	if len(employees) == 0 {
		fmt.Println("No registered employees")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tPOSITION\tREGISTERED")
	for _, e := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Department, e.Position, e.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()

	fmt.Printf("\n%d employees\n", len(employees))
	return nil
}

func runDepartmentsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	departments, err := db.Departments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing departments: %w", err)
	}

	for _, d := range departments {
		fmt.Println(d)
	}
	return nil
}
