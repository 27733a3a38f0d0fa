package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/autoposter/configs"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     *config.Config
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "autoposter",
		Short: "Operate the autoposter pipeline from the command line",
		Long: `autoposter ingests raw ideas, generates posts with AI text and images and
publishes them to X, Instagram and Facebook.

Commands share the configuration of the server, read from the environment
and an optional .env file.`,
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(encryptCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg = config.LoadConfig()
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
