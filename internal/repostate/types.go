package repostate

import (
	"errors"
	"fmt"
)

const (
	gitNotAvailableMessageConstant           = "git executable not found; install git and retry"
	repositoryNotInitializedMessageConstant  = "no repository found; run repo init first"
	initializationDeclinedMessageConstant    = "repository initialization declined"
	commitDeclinedMessageConstant            = "commit declined"
	emptyCommitMessageMessageConstant        = "commit message must not be empty"
	archiveDestinationRequiredMessageCons    = "archive destination path must be provided"
	dirtyWorkingTreeErrorTemplateConstant    = "working tree has uncommitted changes:\n%s"
	executorNotConfiguredMessageConstant     = "repository service requires a shell executor"
	confirmationPrompterMissingMessageCons   = "repository service requires a confirmation prompter"
	textPrompterNotConfiguredMessageConstant = "repository service requires a text prompter"
)

// Sentinel errors surfaced by the repository-state helpers.
var (
	ErrGitNotAvailable            = errors.New(gitNotAvailableMessageConstant)
	ErrRepositoryNotInitialized   = errors.New(repositoryNotInitializedMessageConstant)
	ErrInitializationDeclined     = errors.New(initializationDeclinedMessageConstant)
	ErrCommitDeclined             = errors.New(commitDeclinedMessageConstant)
	ErrEmptyCommitMessage         = errors.New(emptyCommitMessageMessageConstant)
	ErrArchiveDestinationRequired = errors.New(archiveDestinationRequiredMessageCons)

	errExecutorNotConfigured             = errors.New(executorNotConfiguredMessageConstant)
	errConfirmationPrompterNotConfigured = errors.New(confirmationPrompterMissingMessageCons)
	errTextPrompterNotConfigured         = errors.New(textPrompterNotConfiguredMessageConstant)
)

// DirtyWorkingTreeError reports uncommitted changes blocking an operation.
type DirtyWorkingTreeError struct {
	StatusOutput string
}

// Error lists the porcelain status entries describing the dirty tree.
func (dirtyError DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf(dirtyWorkingTreeErrorTemplateConstant, dirtyError.StatusOutput)
}

// InitializationOptions configures EnsureRepositoryExists.
type InitializationOptions struct {
	WorkingDirectory string
	AssumeYes        bool
}

// ArchiveOptions configures CreateSourceArchive.
type ArchiveOptions struct {
	WorkingDirectory string
	DestinationPath  string
	Reference        string
}

// CommitOptions configures ReviewAndCommit.
type CommitOptions struct {
	WorkingDirectory string
	Message          string
	AssumeYes        bool
}

// CommitOutcome reports the result of the review-and-commit flow.
type CommitOutcome struct {
	NothingToCommit bool
	Message         string
}
