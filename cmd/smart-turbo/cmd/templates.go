package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var (
	templatesSystem bool
	templatesType   string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Browse test templates",
	Long: `Browse the test template catalog.

Templates are reusable test shapes; pass one to "test create --template"
instead of spelling out the full configuration.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesSystem, "system", false, "only built-in system templates")
	templatesCmd.Flags().StringVar(&templatesType, "type", "", "filter by test type: LOAD, STRESS, SPIKE or SOAK")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	var templates []api.Template
	switch {
	case templatesType != "":
		tt := api.TestType(templatesType)
		if !tt.IsValid() {
			return fmt.Errorf("invalid test type %q: must be LOAD, STRESS, SPIKE or SOAK", templatesType)
		}
		templates, err = a.client.TemplatesByType(ctx, tt)
	case templatesSystem:
		templates, err = a.client.SystemTemplates(ctx)
	default:
		templates, err = a.client.Templates(ctx)
	}
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(templates)
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tVUSERS\tDURATION\tSYSTEM")
	for _, t := range templates {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%t\n",
			t.ID, t.Name, t.TestType, t.VirtualUsers, t.Duration, t.IsSystem)
	}
	return w.Flush()
}
