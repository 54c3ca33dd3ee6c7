package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"surveyflow/internal/app"
	"surveyflow/internal/service"
	"surveyflow/internal/surveyfile"
)

var importHost string

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Store YAML survey definitions in MongoDB",
	Long: `Parse and check each YAML definition, then store it for a host.

By default the surveys belong to the configured auth.host_username, so
they show up after that host logs in.

Example:
  surveyflow import ./surveys/onboarding.yaml
  surveyflow import ./surveys/*.yaml --host alice`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func setupImportFlags() {
	importCmd.Flags().StringVar(&importHost, "host", "", "host username that owns the imported surveys (default: auth.host_username)")
}

func runImport(cmd *cobra.Command, args []string) error {
	username := importHost
	if username == "" {
		username = cfg.Auth.HostUsername
	}
	hostID := service.HostID(username)

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return ExitError{Code: ExitCodeStoreError, Err: err}
	}
	defer a.Close(cmd.Context())

	for _, path := range args {
		def, err := surveyfile.Load(path)
		if err != nil {
			return ExitError{Code: ExitCodeDefinitionError, Err: err}
		}
		id, err := a.SurveyService.Create(cmd.Context(), hostID, def)
		if err != nil {
			return ExitError{Code: ExitCodeDefinitionError, Err: fmt.Errorf("%s: %w", path, err)}
		}
		log.Info().Str("file", path).Str("survey_id", id).Str("host_id", hostID).Msg("Imported survey")
		fmt.Printf("%s\t%s\t%s\n", id, def.Title, path)
	}
	return nil
}
