// Package cli provides the command-line interface for appcommit.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/appcommit/internal/commit"
	"github.com/mrz1836/appcommit/internal/config"
	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// rootFlags carries the parsed command-line flags.
type rootFlags struct {
	message  string
	force    bool
	strategy string
	verbose  bool
	quiet    bool
}

// newRootCmd creates and returns the root command for the appcommit CLI.
// This function-based approach avoids package-level globals, making the
// code more testable.
func newRootCmd(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "appcommit",
		Short: "Create a verified commit from staged changes via the GitHub API",
		Long: `appcommit turns the staged changes of the local repository into a commit
created through GitHub's object-creation API, authenticated as a GitHub App
installation. The commit appears as authored and verified by the app, and no
push credentials are needed locally.

Credentials come from the environment:
  APPCOMMIT_GITHUB_APP_ID               the app id
  APPCOMMIT_GITHUB_APP_INSTALLATION_ID  the installation id
  APPCOMMIT_GITHUB_APP_PRIVATE_KEY      the app's RSA private key (PEM)`,
		Version:      formatVersion(info),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := InitLogger(flags.verbose, flags.quiet)
			return runCommit(cmd.Context(), cmd, flags, logger)
		},
	}

	cmd.Flags().StringVarP(&flags.message, "message", "m", "", "commit message (required)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "allow a non-fast-forward branch update")
	cmd.Flags().StringVar(&flags.strategy, "strategy", string(config.DefaultStrategy),
		"payload strategy: tree (REST, inline text) or mutation (single GraphQL call)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only log warnings and errors")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

// runCommit wires the pipeline from the parsed flags and executes it.
func runCommit(ctx context.Context, cmd *cobra.Command, flags *rootFlags, logger zerolog.Logger) error {
	repo, err := git.Open(".")
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.Flags{
		Message:  flags.message,
		Force:    flags.force,
		Strategy: flags.strategy,
	}, repo)
	if err != nil {
		return err
	}

	tokens := github.NewTokenProvider(cfg.AppID, cfg.InstallationID, cfg.PrivateKey, nil)
	client := github.NewClient(tokens, cfg.RepoOwner, cfg.RepoName, &github.ClientOptions{Logger: &logger})

	target := commit.Target{
		Owner:   cfg.RepoOwner,
		Name:    cfg.RepoName,
		Branch:  cfg.BranchName,
		HeadOID: cfg.HeadCommitID,
		Message: cfg.CommitMessage,
		Force:   cfg.ForcePush,
	}

	var strategy commit.Strategy
	if cfg.Strategy == config.StrategyMutation {
		strategy = commit.NewMutationStrategy(client, repo, target, logger)
	} else {
		strategy = commit.NewTreeStrategy(client, repo, target, logger)
	}

	orchestrator := commit.NewOrchestrator(repo, client, strategy, target, logger)

	url, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Commit created: %s\n", url)
	return nil
}

// formatVersion renders the version string for --version output.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (%s, %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. Errors are printed to stderr by cobra; the
// caller decides the process exit code.
func Execute(ctx context.Context, info BuildInfo) error {
	cmd := newRootCmd(info)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(ctx)
}
