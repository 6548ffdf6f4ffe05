package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Personal portfolio website",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("content-dir", "", "directory holding the content documents (overrides CONTENT_DIR)")
	rootCmd.AddCommand(serveCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(ginMode string) *slog.Logger {
	if ginMode == "release" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadContent reads the content documents from dir, or the embedded set
// when dir is empty.
func loadContent(dir string) (*content.Store, error) {
	if dir == "" {
		return content.Default()
	}
	return content.Load(os.DirFS(dir))
}

func contentDir(cmd *cobra.Command, fromEnv string) string {
	if dir, _ := cmd.Flags().GetString("content-dir"); dir != "" {
		return dir
	}
	return fromEnv
}
