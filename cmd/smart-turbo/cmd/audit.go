package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var (
	auditUserID int64
	auditPage   int
	auditSize   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse the audit trail (managers only)",
	Long: `Browse the platform audit trail, newest first.

Use --user to restrict the trail to one account.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().Int64Var(&auditUserID, "user", 0, "only entries for this user ID")
	auditCmd.Flags().IntVar(&auditPage, "page", 0, "page number (0-based)")
	auditCmd.Flags().IntVar(&auditSize, "size", 50, "page size")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "audit"); err != nil {
		return err
	}

	var page *api.Page[api.AuditLog]
	if auditUserID > 0 {
		page, err = a.client.UserAuditLogs(ctx, auditUserID, auditPage, auditSize)
	} else {
		page, err = a.client.AuditLogs(ctx, auditPage, auditSize)
	}
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(page)
	}

	w := newTable()
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tRESOURCE\tIP")
	for _, e := range page.Content {
		resource := e.ResourceType
		if e.ResourceID != "" {
			resource += "/" + e.ResourceID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			formatTime(e.CreatedAt), e.Username, e.Action, resource, e.IPAddress)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Page %d of %d (%d entries)\n", page.Number+1, page.TotalPages, page.TotalElements)
	return nil
}
