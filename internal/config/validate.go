package config

import (
	"fmt"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

// Validate rejects an incomplete or inconsistent configuration before any
// network call is attempted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", apperrors.ErrConfigInvalid)
	}

	switch {
	case cfg.CommitMessage == "":
		return fmt.Errorf("%w: commit message", apperrors.ErrConfigMissing)
	case cfg.RepoOwner == "":
		return fmt.Errorf("%w: repository owner", apperrors.ErrConfigMissing)
	case cfg.RepoName == "":
		return fmt.Errorf("%w: repository name", apperrors.ErrConfigMissing)
	case cfg.BranchName == "":
		return fmt.Errorf("%w: branch name", apperrors.ErrConfigMissing)
	case cfg.HeadCommitID == "":
		return fmt.Errorf("%w: head commit id", apperrors.ErrConfigMissing)
	case cfg.AppID <= 0:
		return fmt.Errorf("%w: app id must be positive, got %d", apperrors.ErrConfigInvalid, cfg.AppID)
	case cfg.InstallationID <= 0:
		return fmt.Errorf("%w: installation id must be positive, got %d", apperrors.ErrConfigInvalid, cfg.InstallationID)
	case cfg.PrivateKey == nil:
		return fmt.Errorf("%w: private key", apperrors.ErrConfigMissing)
	}

	if cfg.Strategy != StrategyTree && cfg.Strategy != StrategyMutation {
		return fmt.Errorf("%w: strategy %q must be %q or %q",
			apperrors.ErrConfigInvalid, cfg.Strategy, StrategyTree, StrategyMutation)
	}

	return nil
}
