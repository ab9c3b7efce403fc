package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var (
	createName         string
	createDescription  string
	createTargetURL    string
	createVirtualUsers int
	createDuration     string
	createTestType     string
	createTemplateID   int64
	createScript       string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Manage and run load tests",
}

var testListCmd = &cobra.Command{
	Use:   "list",
	Short: "List load tests",
	Args:  cobra.NoArgs,
	RunE:  runTestList,
}

var testShowCmd = &cobra.Command{
	Use:   "show <testID>",
	Short: "Show one load test",
	Args:  cobra.ExactArgs(1),
	RunE:  runTestShow,
}

var testCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a load test",
	Long: `Create a load test definition.

Either specify the full shape (--target-url, --virtual-users, --duration,
--type) or start from a template with --template and override what you
need.

Examples:
  smart-turbo test create --name "checkout burst" \
    --target-url https://shop.example.com/checkout \
    --virtual-users 200 --duration 5m --type SPIKE

  smart-turbo test create --name "nightly soak" --template 3`,
	Args: cobra.NoArgs,
	RunE: runTestCreate,
}

var testRunCmd = &cobra.Command{
	Use:   "run <testID>",
	Short: "Run a load test",
	Args:  cobra.ExactArgs(1),
	RunE:  runTestRun,
}

var testDeleteCmd = &cobra.Command{
	Use:   "delete <testID>",
	Short: "Delete a load test",
	Args:  cobra.ExactArgs(1),
	RunE:  runTestDelete,
}

func init() {
	testCreateCmd.Flags().StringVar(&createName, "name", "", "test name (required)")
	testCreateCmd.Flags().StringVar(&createDescription, "description", "", "test description")
	testCreateCmd.Flags().StringVar(&createTargetURL, "target-url", "", "URL under test")
	testCreateCmd.Flags().IntVar(&createVirtualUsers, "virtual-users", 0, "number of virtual users")
	testCreateCmd.Flags().StringVar(&createDuration, "duration", "", "test duration, e.g. 5m")
	testCreateCmd.Flags().StringVar(&createTestType, "type", "", "test type: LOAD, STRESS, SPIKE or SOAK")
	testCreateCmd.Flags().Int64Var(&createTemplateID, "template", 0, "template ID to base the test on")
	testCreateCmd.Flags().StringVar(&createScript, "script", "", "custom engine script")
	_ = testCreateCmd.MarkFlagRequired("name")

	testCmd.AddCommand(testListCmd, testShowCmd, testCreateCmd, testRunCmd, testDeleteCmd)
	rootCmd.AddCommand(testCmd)
}

// parseID parses a positional numeric ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be a positive integer", arg)
	}
	return id, nil
}

func runTestList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	tests, err := a.client.ListTests(ctx)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(tests)
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tVUSERS\tDURATION\tCREATED")
	for _, t := range tests {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID, t.Name, t.TestType, t.Status, t.VirtualUsers, t.Duration, formatTime(t.CreatedAt))
	}
	return w.Flush()
}

func runTestShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	test, err := a.client.GetTest(ctx, id)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(test)
	}

	w := newTable()
	fmt.Fprintf(w, "ID:\t%d\n", test.ID)
	fmt.Fprintf(w, "Name:\t%s\n", test.Name)
	if test.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", test.Description)
	}
	fmt.Fprintf(w, "Target URL:\t%s\n", test.TargetURL)
	fmt.Fprintf(w, "Type:\t%s\n", test.TestType)
	fmt.Fprintf(w, "Status:\t%s\n", test.Status)
	fmt.Fprintf(w, "Virtual users:\t%d\n", test.VirtualUsers)
	fmt.Fprintf(w, "Duration:\t%s\n", test.Duration)
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(test.CreatedAt))
	fmt.Fprintf(w, "Completed:\t%s\n", formatTimePtr(test.CompletedAt))
	return w.Flush()
}

func runTestCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	req := api.CreateTestRequest{
		Name:         createName,
		Description:  createDescription,
		TargetURL:    createTargetURL,
		VirtualUsers: createVirtualUsers,
		Duration:     createDuration,
		TemplateID:   createTemplateID,
		Script:       createScript,
	}
	if createTestType != "" {
		req.TestType = api.TestType(createTestType)
		if !req.TestType.IsValid() {
			return fmt.Errorf("invalid test type %q: must be LOAD, STRESS, SPIKE or SOAK", createTestType)
		}
	}
	if req.TemplateID == 0 && (req.TargetURL == "" || req.TestType == "" || req.Duration == "") {
		return fmt.Errorf("specify --template, or all of --target-url, --type and --duration")
	}

	test, err := a.client.CreateTest(ctx, req)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(test)
	}
	fmt.Printf("Created test %d (%s)\n", test.ID, test.Name)
	return nil
}

func runTestRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	result, err := a.client.RunTest(ctx, id)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(result)
	}
	fmt.Printf("Started test %d (result %d, status %s)\n", id, result.ID, result.Status)
	fmt.Printf("Follow it with: smart-turbo monitor %d\n", id)
	return nil
}

func runTestDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.client.DeleteTest(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted test %d\n", id)
	return nil
}
