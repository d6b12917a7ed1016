package repostate_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calendee/expo-cli/internal/execshell"
	"github.com/calendee/expo-cli/internal/repostate"
	"github.com/calendee/expo-cli/internal/ui"
)

const (
	testWorkingDirectoryConstant   = "/workspace/project"
	testArchiveDestinationConstant = "/tmp/project-source.tar"
	testCommitMessageConstant      = "add deep link support"
	testDirtyStatusOutputConstant  = " M app.json\n?? ios/Info.plist"
	argumentsJoinSeparatorConstant = " "
)

type scriptedResponse struct {
	result       execshell.ExecutionResult
	failureError error
}

type scriptedGitExecutor struct {
	responses         map[string]scriptedResponse
	recordedArguments [][]string
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedArguments = append(executor.recordedArguments, details.Arguments)

	joinedArguments := strings.Join(details.Arguments, argumentsJoinSeparatorConstant)
	if response, responseExists := executor.responses[joinedArguments]; responseExists {
		return response.result, response.failureError
	}
	if len(details.Arguments) > 0 {
		if response, responseExists := executor.responses[details.Arguments[0]]; responseExists {
			return response.result, response.failureError
		}
	}
	return execshell.ExecutionResult{ExitCode: 0}, nil
}

func (executor *scriptedGitExecutor) commandLines() []string {
	commandLines := make([]string, 0, len(executor.recordedArguments))
	for _, recordedArguments := range executor.recordedArguments {
		commandLines = append(commandLines, strings.Join(recordedArguments, argumentsJoinSeparatorConstant))
	}
	return commandLines
}

func commandFailure(arguments []string, exitCode int, standardError string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode, StandardError: standardError},
	}
}

func executionFailure(arguments []string) error {
	return execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Cause:   errors.New("executable file not found"),
	}
}

func newTestService(testInstance *testing.T, executor repostate.GitExecutor, promptInput string, output *bytes.Buffer) *repostate.Service {
	testInstance.Helper()

	if output == nil {
		output = &bytes.Buffer{}
	}
	prompter := ui.NewIOPrompter(strings.NewReader(promptInput), output)

	service, creationError := repostate.NewService(zap.NewNop(), executor, prompter, prompter, output)
	require.NoError(testInstance, creationError)
	return service
}

func TestNewServiceValidatesCollaborators(testInstance *testing.T) {
	prompter := ui.NewIOPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, missingExecutorError := repostate.NewService(zap.NewNop(), nil, prompter, prompter, &bytes.Buffer{})
	require.Error(testInstance, missingExecutorError)

	_, missingConfirmationError := repostate.NewService(zap.NewNop(), &scriptedGitExecutor{}, nil, prompter, &bytes.Buffer{})
	require.Error(testInstance, missingConfirmationError)

	_, missingTextError := repostate.NewService(zap.NewNop(), &scriptedGitExecutor{}, prompter, nil, &bytes.Buffer{})
	require.Error(testInstance, missingTextError)
}

func TestEnsureGitAvailableMapsExecutionFailure(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"--version": {failureError: executionFailure([]string{"--version"})},
	}}
	service := newTestService(testInstance, executor, "", nil)

	availabilityError := service.EnsureGitAvailable(context.Background())
	require.ErrorIs(testInstance, availabilityError, repostate.ErrGitNotAvailable)
}

func TestIsRepositoryInitializedInterpretsProbeResults(testInstance *testing.T) {
	testCases := []struct {
		name            string
		probeResponse   scriptedResponse
		expectedVerdict bool
		expectedError   error
	}{
		{
			name:            "inside_work_tree",
			probeResponse:   scriptedResponse{result: execshell.ExecutionResult{StandardOutput: "true\n"}},
			expectedVerdict: true,
		},
		{
			name:          "not_a_repository",
			probeResponse: scriptedResponse{failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
		},
		{
			name:          "git_missing",
			probeResponse: scriptedResponse{failureError: executionFailure([]string{"rev-parse", "--is-inside-work-tree"})},
			expectedError: repostate.ErrGitNotAvailable,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
				"rev-parse --is-inside-work-tree": testCase.probeResponse,
			}}
			service := newTestService(testInstance, executor, "", nil)

			repositoryInitialized, checkError := service.IsRepositoryInitialized(context.Background(), testWorkingDirectoryConstant)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, checkError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedVerdict, repositoryInitialized)
		})
	}
}

func TestEnsureRepositoryExistsInitializesAfterConfirmation(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
	}}
	outputBuffer := &bytes.Buffer{}
	service := newTestService(testInstance, executor, "y\n", outputBuffer)

	ensureError := service.EnsureRepositoryExists(context.Background(), repostate.InitializationOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.NoError(testInstance, ensureError)
	require.Contains(testInstance, executor.commandLines(), "init")
	require.Contains(testInstance, outputBuffer.String(), "Initialize one now?")
}

func TestEnsureRepositoryExistsAbortsWhenDeclined(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
	}}
	service := newTestService(testInstance, executor, "n\n", nil)

	ensureError := service.EnsureRepositoryExists(context.Background(), repostate.InitializationOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.ErrorIs(testInstance, ensureError, repostate.ErrInitializationDeclined)
	require.NotContains(testInstance, executor.commandLines(), "init")
}

func TestEnsureRepositoryExistsSkipsPromptWithAssumeYes(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
	}}
	service := newTestService(testInstance, executor, "", nil)

	ensureError := service.EnsureRepositoryExists(context.Background(), repostate.InitializationOptions{WorkingDirectory: testWorkingDirectoryConstant, AssumeYes: true})
	require.NoError(testInstance, ensureError)
	require.Contains(testInstance, executor.commandLines(), "init")
}

func TestEnsureRepositoryExistsIsNoOpWhenRepositoryPresent(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
	}}
	service := newTestService(testInstance, executor, "", nil)

	ensureError := service.EnsureRepositoryExists(context.Background(), repostate.InitializationOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.NoError(testInstance, ensureError)
	require.NotContains(testInstance, executor.commandLines(), "init")
}

func TestEnsureWorkingTreeCleanReportsDirtyTree(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"status --porcelain": {result: execshell.ExecutionResult{StandardOutput: testDirtyStatusOutputConstant + "\n"}},
	}}
	service := newTestService(testInstance, executor, "", nil)

	cleanError := service.EnsureWorkingTreeClean(context.Background(), testWorkingDirectoryConstant)
	require.Error(testInstance, cleanError)

	var dirtyTreeError repostate.DirtyWorkingTreeError
	require.ErrorAs(testInstance, cleanError, &dirtyTreeError)
	require.Equal(testInstance, testDirtyStatusOutputConstant, dirtyTreeError.StatusOutput)
}

func TestEnsureWorkingTreeCleanPassesOnCleanTree(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"status --porcelain": {result: execshell.ExecutionResult{StandardOutput: "\n"}},
	}}
	service := newTestService(testInstance, executor, "", nil)

	require.NoError(testInstance, service.EnsureWorkingTreeClean(context.Background(), testWorkingDirectoryConstant))
}

func TestCreateSourceArchiveIssuesArchiveCommand(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
	}}
	service := newTestService(testInstance, executor, "", nil)

	archiveError := service.CreateSourceArchive(context.Background(), repostate.ArchiveOptions{
		WorkingDirectory: testWorkingDirectoryConstant,
		DestinationPath:  testArchiveDestinationConstant,
	})
	require.NoError(testInstance, archiveError)
	require.Contains(testInstance, executor.commandLines(), "archive --format=tar -o "+testArchiveDestinationConstant+" HEAD")
}

func TestCreateSourceArchiveRequiresDestination(testInstance *testing.T) {
	service := newTestService(testInstance, &scriptedGitExecutor{}, "", nil)

	archiveError := service.CreateSourceArchive(context.Background(), repostate.ArchiveOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.ErrorIs(testInstance, archiveError, repostate.ErrArchiveDestinationRequired)
}

func TestCreateSourceArchiveRequiresRepository(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
	}}
	service := newTestService(testInstance, executor, "", nil)

	archiveError := service.CreateSourceArchive(context.Background(), repostate.ArchiveOptions{
		WorkingDirectory: testWorkingDirectoryConstant,
		DestinationPath:  testArchiveDestinationConstant,
	})
	require.ErrorIs(testInstance, archiveError, repostate.ErrRepositoryNotInitialized)
}

func TestReviewAndCommitCommitsWithPromptedMessage(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
		"status --porcelain":              {result: execshell.ExecutionResult{StandardOutput: testDirtyStatusOutputConstant + "\n"}},
		"status":                          {result: execshell.ExecutionResult{StandardOutput: "On branch main\n"}},
		"diff --stat":                     {result: execshell.ExecutionResult{StandardOutput: " app.json | 2 +-\n"}},
	}}
	outputBuffer := &bytes.Buffer{}
	service := newTestService(testInstance, executor, "y\n"+testCommitMessageConstant+"\n", outputBuffer)

	commitOutcome, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.NoError(testInstance, commitError)
	require.False(testInstance, commitOutcome.NothingToCommit)
	require.Equal(testInstance, testCommitMessageConstant, commitOutcome.Message)

	commandLines := executor.commandLines()
	require.Contains(testInstance, commandLines, "add -A")
	require.Contains(testInstance, commandLines, "commit -m "+testCommitMessageConstant)
	require.Contains(testInstance, outputBuffer.String(), "Pending changes:")
	require.Contains(testInstance, outputBuffer.String(), "On branch main")
	require.Contains(testInstance, outputBuffer.String(), "app.json | 2 +-")
}

func TestReviewAndCommitShortCircuitsOnCleanTree(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
		"status --porcelain":              {result: execshell.ExecutionResult{StandardOutput: ""}},
	}}
	outputBuffer := &bytes.Buffer{}
	service := newTestService(testInstance, executor, "", outputBuffer)

	commitOutcome, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.NoError(testInstance, commitError)
	require.True(testInstance, commitOutcome.NothingToCommit)
	require.Contains(testInstance, outputBuffer.String(), "Nothing to commit")
	require.NotContains(testInstance, executor.commandLines(), "add -A")
}

func TestReviewAndCommitAbortsWhenDeclined(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
		"status --porcelain":              {result: execshell.ExecutionResult{StandardOutput: testDirtyStatusOutputConstant}},
	}}
	service := newTestService(testInstance, executor, "n\n", nil)

	_, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.ErrorIs(testInstance, commitError, repostate.ErrCommitDeclined)
	require.NotContains(testInstance, executor.commandLines(), "add -A")
}

func TestReviewAndCommitRejectsEmptyMessage(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
		"status --porcelain":              {result: execshell.ExecutionResult{StandardOutput: testDirtyStatusOutputConstant}},
	}}
	service := newTestService(testInstance, executor, "y\n\n", nil)

	_, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.ErrorIs(testInstance, commitError, repostate.ErrEmptyCommitMessage)
	require.NotContains(testInstance, executor.commandLines(), "add -A")
}

func TestReviewAndCommitUsesSuppliedMessageWithoutPrompting(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {result: execshell.ExecutionResult{StandardOutput: "true\n"}},
		"status --porcelain":              {result: execshell.ExecutionResult{StandardOutput: testDirtyStatusOutputConstant}},
	}}
	service := newTestService(testInstance, executor, "", nil)

	commitOutcome, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{
		WorkingDirectory: testWorkingDirectoryConstant,
		Message:          testCommitMessageConstant,
		AssumeYes:        true,
	})
	require.NoError(testInstance, commitError)
	require.Equal(testInstance, testCommitMessageConstant, commitOutcome.Message)
	require.Contains(testInstance, executor.commandLines(), "commit -m "+testCommitMessageConstant)
}

func TestReviewAndCommitRequiresRepository(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": {failureError: commandFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128, "fatal: not a git repository")},
	}}
	service := newTestService(testInstance, executor, "", nil)

	_, commitError := service.ReviewAndCommit(context.Background(), repostate.CommitOptions{WorkingDirectory: testWorkingDirectoryConstant})
	require.ErrorIs(testInstance, commitError, repostate.ErrRepositoryNotInitialized)
}
