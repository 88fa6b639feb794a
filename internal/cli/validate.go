package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/depgate/internal/queryline"
	"github.com/aidanlsb/depgate/internal/ui"
)

var (
	validateFile  string
	validateSuite string
)

var validateCmd = &cobra.Command{
	Use:   "validate [query...]",
	Short: "Check queries without running them",
	Long: `Tokenize and validate queries, reporting every defect at once:
missing selectors, unknown --view values, and --expect-results
comparators that do not compile. Nothing is executed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reuse the run command's source resolution.
		runFile, runSuite = validateFile, validateSuite
		queries, _, err := gatherQueries(args)
		if err != nil {
			if isJSONOutput() {
				outputError(ErrNoQueries, err.Error(), nil, "")
			}
			return err
		}

		problems := queryline.ValidateBatch(queries)

		if isJSONOutput() {
			data := map[string]interface{}{
				"queries":  len(queries),
				"problems": problems,
				"valid":    len(problems) == 0,
			}
			if len(problems) == 0 {
				outputSuccess(data)
				return nil
			}
			outputJSON(Response{
				OK:    false,
				Data:  data,
				Error: &ErrorInfo{Code: ErrQueryInvalid, Message: fmt.Sprintf("%d invalid queries", len(problems))},
			})
			return errValidationFailed
		}

		if len(problems) == 0 {
			fmt.Println(ui.Successf("%d queries valid", len(queries)))
			return nil
		}
		for _, p := range problems {
			fmt.Println(ui.Error(p))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("%d queries checked, %d problems", len(queries), len(problems))))
		return errValidationFailed
	},
}

var errValidationFailed = fmt.Errorf("validation failed")

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Read queries from a file (\"-\" for stdin)")
	validateCmd.Flags().StringVarP(&validateSuite, "suite", "s", "", "Validate a named suite from the gatefile")
	rootCmd.AddCommand(validateCmd)
}
