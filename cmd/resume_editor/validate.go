package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/schemas"
)

var (
	validateSchemaName string
	validateJSONFile   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a built-in schema",
	Long:  "Validates a document or parsed résumé JSON file against its JSON schema and reports every violation.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaName, "schema", "s", schemas.ResumeDocument, "Schema name: "+schemas.ResumeDocument+" or "+schemas.ParsedResume)
	validateCmd.Flags().StringVarP(&validateJSONFile, "json", "j", "", "Path to JSON file to validate (required)")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if err := schemas.ValidateFile(validateSchemaName, validateJSONFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid against %s\n", validateJSONFile, validateSchemaName)
	return nil
}
