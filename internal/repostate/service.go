package repostate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/calendee/expo-cli/internal/execshell"
	"github.com/calendee/expo-cli/internal/ui"
)

const (
	gitVersionArgumentConstant          = "--version"
	gitRevParseArgumentConstant         = "rev-parse"
	gitInsideWorkTreeArgumentConstant   = "--is-inside-work-tree"
	gitInitArgumentConstant             = "init"
	gitStatusArgumentConstant           = "status"
	gitPorcelainArgumentConstant        = "--porcelain"
	gitArchiveArgumentConstant          = "archive"
	gitArchiveFormatArgumentConstant    = "--format=tar"
	gitArchiveOutputArgumentConstant    = "-o"
	gitDiffArgumentConstant             = "diff"
	gitDiffStatArgumentConstant         = "--stat"
	gitAddArgumentConstant              = "add"
	gitAddAllArgumentConstant           = "-A"
	gitCommitArgumentConstant           = "commit"
	gitCommitMessageArgumentConstant    = "-m"
	gitHeadReferenceConstant            = "HEAD"
	insideWorkTreeOutputConstant        = "true"
	initializationPromptTemplateCons    = "No repository found in %s. Initialize one now? [y/N] "
	commitConfirmationPromptConstant    = "Commit these changes? [y/N] "
	commitMessagePromptConstant         = "Commit message: "
	nothingToCommitMessageConstant      = "Nothing to commit, working tree clean.\n"
	pendingChangesHeaderConstant        = "Pending changes:\n"
	currentDirectoryLabelConstant       = "the current directory"
	logMessageRepositoryInitialized     = "repository initialized"
	logMessageArchiveCreatedConstant    = "source archive created"
	logMessageChangesCommittedConstant  = "changes committed"
	logFieldWorkingDirectoryConstant    = "working_directory"
	logFieldDestinationConstant         = "destination"
	logFieldCommitMessageFieldConstant  = "commit_message"
	serviceFailureTemplateConstant      = "%s: %w"
	statusOperationLabelConstant        = "status check failed"
	diffOperationLabelConstant          = "diff collection failed"
	initializeOperationLabelConstant    = "repository initialization failed"
	archiveOperationLabelConstant       = "archive creation failed"
	stageOperationLabelConstant         = "staging failed"
	commitOperationLabelConstant        = "commit failed"
	promptOperationLabelConstant        = "prompt failed"
)

// GitExecutor abstracts the shell executor so tests can substitute recordings.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service drives repository-state checks and interactive flows over git.
type Service struct {
	logger               *zap.Logger
	executor             GitExecutor
	confirmationPrompter ui.ConfirmationPrompter
	textPrompter         ui.TextPrompter
	output               io.Writer
}

// NewService validates collaborators and assembles a repository-state Service.
func NewService(logger *zap.Logger, executor GitExecutor, confirmationPrompter ui.ConfirmationPrompter, textPrompter ui.TextPrompter, output io.Writer) (*Service, error) {
	if executor == nil {
		return nil, errExecutorNotConfigured
	}
	if confirmationPrompter == nil {
		return nil, errConfirmationPrompterNotConfigured
	}
	if textPrompter == nil {
		return nil, errTextPrompterNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if output == nil {
		output = io.Discard
	}

	return &Service{
		logger:               logger,
		executor:             executor,
		confirmationPrompter: confirmationPrompter,
		textPrompter:         textPrompter,
		output:               output,
	}, nil
}

// EnsureGitAvailable verifies the git executable can be invoked.
func (service *Service) EnsureGitAvailable(executionContext context.Context) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitVersionArgumentConstant},
	})
	if executionError != nil {
		var commandExecutionError execshell.CommandExecutionError
		if errors.As(executionError, &commandExecutionError) {
			return ErrGitNotAvailable
		}
		return executionError
	}
	return nil
}

// IsRepositoryInitialized reports whether the directory is inside a git work tree.
func (service *Service) IsRepositoryInitialized(executionContext context.Context, workingDirectory string) (bool, error) {
	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseArgumentConstant, gitInsideWorkTreeArgumentConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		var commandExecutionError execshell.CommandExecutionError
		if errors.As(executionError, &commandExecutionError) {
			return false, ErrGitNotAvailable
		}
		return false, executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeOutputConstant, nil
}

// EnsureRepositoryExists checks for a repository and interactively offers to
// initialize one when missing. Declining aborts with ErrInitializationDeclined.
func (service *Service) EnsureRepositoryExists(executionContext context.Context, options InitializationOptions) error {
	repositoryInitialized, checkError := service.IsRepositoryInitialized(executionContext, options.WorkingDirectory)
	if checkError != nil {
		return checkError
	}
	if repositoryInitialized {
		return nil
	}

	if !options.AssumeYes {
		directoryLabel := strings.TrimSpace(options.WorkingDirectory)
		if len(directoryLabel) == 0 {
			directoryLabel = currentDirectoryLabelConstant
		}

		initializationConfirmed, promptError := service.confirmationPrompter.Confirm(fmt.Sprintf(initializationPromptTemplateCons, directoryLabel))
		if promptError != nil {
			return fmt.Errorf(serviceFailureTemplateConstant, promptOperationLabelConstant, promptError)
		}
		if !initializationConfirmed {
			return ErrInitializationDeclined
		}
	}

	_, initializationError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitInitArgumentConstant},
		WorkingDirectory: options.WorkingDirectory,
	})
	if initializationError != nil {
		return fmt.Errorf(serviceFailureTemplateConstant, initializeOperationLabelConstant, initializationError)
	}

	service.logger.Info(
		logMessageRepositoryInitialized,
		zap.String(logFieldWorkingDirectoryConstant, options.WorkingDirectory),
	)

	return nil
}

// IsWorkingTreeClean reports whether the working tree has no pending changes,
// returning the porcelain status output alongside the verdict.
func (service *Service) IsWorkingTreeClean(executionContext context.Context, workingDirectory string) (bool, string, error) {
	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusArgumentConstant, gitPorcelainArgumentConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return false, "", fmt.Errorf(serviceFailureTemplateConstant, statusOperationLabelConstant, executionError)
	}

	statusOutput := strings.TrimSpace(executionResult.StandardOutput)
	return len(statusOutput) == 0, statusOutput, nil
}

// EnsureWorkingTreeClean aborts with DirtyWorkingTreeError when pending changes exist.
func (service *Service) EnsureWorkingTreeClean(executionContext context.Context, workingDirectory string) error {
	workingTreeClean, statusOutput, checkError := service.IsWorkingTreeClean(executionContext, workingDirectory)
	if checkError != nil {
		return checkError
	}
	if !workingTreeClean {
		return DirtyWorkingTreeError{StatusOutput: statusOutput}
	}
	return nil
}

// CreateSourceArchive writes a tar snapshot of the repository contents at the
// supplied reference (HEAD when empty) to the destination path.
func (service *Service) CreateSourceArchive(executionContext context.Context, options ArchiveOptions) error {
	destinationPath := strings.TrimSpace(options.DestinationPath)
	if len(destinationPath) == 0 {
		return ErrArchiveDestinationRequired
	}

	repositoryInitialized, checkError := service.IsRepositoryInitialized(executionContext, options.WorkingDirectory)
	if checkError != nil {
		return checkError
	}
	if !repositoryInitialized {
		return ErrRepositoryNotInitialized
	}

	archiveReference := strings.TrimSpace(options.Reference)
	if len(archiveReference) == 0 {
		archiveReference = gitHeadReferenceConstant
	}

	_, archiveError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitArchiveArgumentConstant, gitArchiveFormatArgumentConstant, gitArchiveOutputArgumentConstant, destinationPath, archiveReference},
		WorkingDirectory: options.WorkingDirectory,
	})
	if archiveError != nil {
		return fmt.Errorf(serviceFailureTemplateConstant, archiveOperationLabelConstant, archiveError)
	}

	service.logger.Info(
		logMessageArchiveCreatedConstant,
		zap.String(logFieldDestinationConstant, destinationPath),
		zap.String(logFieldWorkingDirectoryConstant, options.WorkingDirectory),
	)

	return nil
}

// ReviewAndCommit shows pending changes, confirms the commit interactively,
// prompts for a message when none is supplied, and stages and commits
// everything. A clean working tree short-circuits without error.
func (service *Service) ReviewAndCommit(executionContext context.Context, options CommitOptions) (CommitOutcome, error) {
	repositoryInitialized, checkError := service.IsRepositoryInitialized(executionContext, options.WorkingDirectory)
	if checkError != nil {
		return CommitOutcome{}, checkError
	}
	if !repositoryInitialized {
		return CommitOutcome{}, ErrRepositoryNotInitialized
	}

	workingTreeClean, _, statusError := service.IsWorkingTreeClean(executionContext, options.WorkingDirectory)
	if statusError != nil {
		return CommitOutcome{}, statusError
	}
	if workingTreeClean {
		fmt.Fprint(service.output, nothingToCommitMessageConstant)
		return CommitOutcome{NothingToCommit: true}, nil
	}

	if reviewError := service.showPendingChanges(executionContext, options.WorkingDirectory); reviewError != nil {
		return CommitOutcome{}, reviewError
	}

	if !options.AssumeYes {
		commitConfirmed, promptError := service.confirmationPrompter.Confirm(commitConfirmationPromptConstant)
		if promptError != nil {
			return CommitOutcome{}, fmt.Errorf(serviceFailureTemplateConstant, promptOperationLabelConstant, promptError)
		}
		if !commitConfirmed {
			return CommitOutcome{}, ErrCommitDeclined
		}
	}

	commitMessage := strings.TrimSpace(options.Message)
	if len(commitMessage) == 0 {
		promptedMessage, promptError := service.textPrompter.PromptText(commitMessagePromptConstant)
		if promptError != nil {
			return CommitOutcome{}, fmt.Errorf(serviceFailureTemplateConstant, promptOperationLabelConstant, promptError)
		}
		commitMessage = strings.TrimSpace(promptedMessage)
	}
	if len(commitMessage) == 0 {
		return CommitOutcome{}, ErrEmptyCommitMessage
	}

	if _, stagingError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddArgumentConstant, gitAddAllArgumentConstant},
		WorkingDirectory: options.WorkingDirectory,
	}); stagingError != nil {
		return CommitOutcome{}, fmt.Errorf(serviceFailureTemplateConstant, stageOperationLabelConstant, stagingError)
	}

	if _, commitError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCommitArgumentConstant, gitCommitMessageArgumentConstant, commitMessage},
		WorkingDirectory: options.WorkingDirectory,
	}); commitError != nil {
		return CommitOutcome{}, fmt.Errorf(serviceFailureTemplateConstant, commitOperationLabelConstant, commitError)
	}

	service.logger.Info(
		logMessageChangesCommittedConstant,
		zap.String(logFieldCommitMessageFieldConstant, commitMessage),
		zap.String(logFieldWorkingDirectoryConstant, options.WorkingDirectory),
	)

	return CommitOutcome{Message: commitMessage}, nil
}

func (service *Service) showPendingChanges(executionContext context.Context, workingDirectory string) error {
	statusResult, statusError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusArgumentConstant},
		WorkingDirectory: workingDirectory,
	})
	if statusError != nil {
		return fmt.Errorf(serviceFailureTemplateConstant, statusOperationLabelConstant, statusError)
	}

	diffResult, diffError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffArgumentConstant, gitDiffStatArgumentConstant},
		WorkingDirectory: workingDirectory,
	})
	if diffError != nil {
		return fmt.Errorf(serviceFailureTemplateConstant, diffOperationLabelConstant, diffError)
	}

	fmt.Fprint(service.output, pendingChangesHeaderConstant)
	fmt.Fprint(service.output, statusResult.StandardOutput)
	fmt.Fprint(service.output, diffResult.StandardOutput)

	return nil
}
