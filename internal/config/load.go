package config

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
)

// Environment variable keys (after the APPCOMMIT_ prefix is applied).
const (
	keyAppID          = "github_app_id"
	keyInstallationID = "github_app_installation_id"
	keyPrivateKey     = "github_app_private_key"
)

// Flags carries the values parsed from the command line.
type Flags struct {
	// Message is the commit message (required).
	Message string
	// Force permits a non-fast-forward branch update.
	Force bool
	// Strategy names the payload strategy; empty selects the default.
	Strategy string
}

// newViperInstance creates a Viper instance reading APPCOMMIT_-prefixed
// environment variables.
func newViperInstance() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("APPCOMMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// envName renders the fully-prefixed environment variable name for error
// messages.
func envName(key string) string {
	return "APPCOMMIT_" + strings.ToUpper(key)
}

// Load assembles the run configuration from flags, the local repository and
// the process environment. Credential parsing failures name the offending
// environment variable so the operator knows what to fix.
func Load(flags Flags, repo *git.Repository) (*Config, error) {
	branch, head, err := repo.Head()
	if err != nil {
		return nil, err
	}

	owner, name, err := repo.GitHubRemote()
	if err != nil {
		return nil, err
	}

	v := newViperInstance()

	appID := v.GetInt64(keyAppID)
	if appID == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigMissing, envName(keyAppID))
	}

	installationID := v.GetInt64(keyInstallationID)
	if installationID == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigMissing, envName(keyInstallationID))
	}

	pemData := v.GetString(keyPrivateKey)
	if pemData == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigMissing, envName(keyPrivateKey))
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidPrivateKey, envName(keyPrivateKey))
	}

	strategy := Strategy(flags.Strategy)
	if flags.Strategy == "" {
		strategy = DefaultStrategy
	}

	cfg := &Config{
		CommitMessage:  flags.Message,
		ForcePush:      flags.Force,
		Strategy:       strategy,
		RepoOwner:      owner,
		RepoName:       name,
		BranchName:     branch,
		HeadCommitID:   head.String(),
		AppID:          appID,
		InstallationID: installationID,
		PrivateKey:     privateKey,
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
