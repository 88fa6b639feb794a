// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/depgate/internal/config"
	"github.com/aidanlsb/depgate/internal/ui"
)

var (
	// Global flags
	configPath   string
	gatefilePath string
	jsonOutput   bool
	noColor      bool

	// Resolved values
	cfg      *config.Config
	gatefile *config.Gatefile
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "depgate",
	Short: "depgate - dependency query gates for CI",
	Long: `Depgate runs dependency queries through an external query binary and
gates on the number of results each query returns.

Query lines pair a selector with flags:

  :malware --expect-results=0
  *:license(copyleft) --scope=":root > *" --expect-results=0 --view=json

Inside GitHub Actions, depgate reads its queries from action inputs and
publishes outputs and a step summary; locally it prints a styled table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if noColor {
			os.Setenv("NO_COLOR", "1")
		} else {
			ui.ConfigureTheme(cfg.UI.Accent)
		}

		path := gatefilePath
		if path == "" {
			path = config.GatefileName
		}
		gatefile, err = config.LoadGatefileIfPresent(path)
		if err != nil {
			return err
		}
		if gatefile == nil && gatefilePath != "" {
			return fmt.Errorf("gatefile not found: %s", gatefilePath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to global config file")
	rootCmd.PersistentFlags().StringVarP(&gatefilePath, "gatefile", "g", "", "Path to depgate.yaml (default: ./depgate.yaml when present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getGatefile returns the loaded gatefile, or nil when none was found.
func getGatefile() *config.Gatefile {
	return gatefile
}

func isJSONOutput() bool {
	return jsonOutput
}
