package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON file",
	Long:  "Checks a resume file against the resume JSON schema and reports entries that normalization would drop.",
	RunE:  runValidate,
}

var (
	validateInput  string
	validateSchema string
	validateStrict bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to resume JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Validate against this schema file instead of the built-in resume schema")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail when the file does not match the schema exactly")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(validateInput)
	if os.IsNotExist(err) {
		return fmt.Errorf("resume file not found: %s", validateInput)
	} else if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	out := cmd.OutOrStdout()

	schemaErr := checkSchema(data)
	var validationErr *schemas.ValidationError
	switch {
	case schemaErr == nil:
		_, _ = fmt.Fprintln(out, "Schema: valid")
	case errors.As(schemaErr, &validationErr):
		_, _ = fmt.Fprintf(out, "Schema: %d problem(s)\n", len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
	default:
		return fmt.Errorf("failed to validate against schema: %w", schemaErr)
	}

	// The loose shape is accepted even when the schema is not met
	_, report, err := readResume(validateInput)
	if report != nil {
		printReport(out, report)
	}
	if err != nil {
		return fmt.Errorf("resume is unusable: %w", err)
	}

	if validateStrict && schemaErr != nil {
		return fmt.Errorf("validation found %d schema problem(s)", len(validationErr.Errors))
	}
	if !report.OK() {
		_, _ = fmt.Fprintf(out, "Usable, %d entries would be dropped\n", len(report.Errors))
		return nil
	}
	_, _ = fmt.Fprintln(out, "Validation passed: No problems found")
	return nil
}

// checkSchema validates against --schema when given, else the embedded schema
func checkSchema(data []byte) error {
	if validateSchema == "" {
		return schemas.ValidateResume(data)
	}
	path := validateSchema
	if resolved := schemas.ResolveSchemaPath(validateSchema); resolved != "" {
		path = resolved
	}
	return schemas.ValidateResumeAgainst(path, data)
}

func printReport(out io.Writer, report *normalize.Report) {
	if verbose {
		observability.NewPrinter(out).PrintNormalizeReport(report)
		return
	}
	for _, w := range report.Warnings() {
		_, _ = fmt.Fprintf(out, "Warning: %s\n", w)
	}
}
