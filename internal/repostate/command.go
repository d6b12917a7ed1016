package repostate

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calendee/expo-cli/internal/execshell"
	"github.com/calendee/expo-cli/internal/ui"
	"github.com/calendee/expo-cli/internal/utils"
	"github.com/calendee/expo-cli/internal/utils/flags"
	pathutils "github.com/calendee/expo-cli/internal/utils/path"
)

const (
	groupUseConstant              = "repo"
	groupShortDescriptionConstant = "Check and manage the project's source repository"
	groupLongDescriptionConstant  = "repo wraps the git executable to verify repository state, create source snapshots, and commit changes interactively."

	initUseConstant          = "init"
	initShortDescription     = "Initialize a repository when one is missing"
	checkUseConstant         = "check"
	checkShortDescription    = "Verify the working tree has no uncommitted changes"
	archiveUseConstant       = "archive [destination]"
	archiveShortDescription  = "Write a tar snapshot of the repository contents"
	commitUseConstant        = "commit"
	commitShortDescription   = "Review pending changes and commit them interactively"
	directoryFlagName        = "directory"
	directoryFlagDescription = "Repository directory (defaults to the current directory)"
	assumeYesFlagName        = "yes"
	assumeYesFlagDescription = "Skip interactive confirmation prompts"
	messageFlagName          = "message"
	messageFlagDescription   = "Commit message (prompts when omitted)"
	referenceFlagName        = "ref"
	referenceFlagDescription = "Revision to archive (defaults to HEAD)"

	workingTreeCleanMessageConstant   = "Working tree clean.\n"
	archiveWrittenMessageTemplateCons = "Source archive written to %s.\n"
	commitCreatedMessageTemplateCons  = "Committed with message %q.\n"
	commandFailureTemplateConstant    = "repo %s failed: %w"
)

// HumanReadableLoggingProvider reports whether console-format logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command group for repository-state helpers.
type CommandBuilder struct {
	LoggerProvider               func() *zap.Logger
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Executor                     GitExecutor
	CommandEventsObserver        execshell.CommandEventObserver
}

// Build constructs the repo command group with its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
	}

	groupCommand.PersistentFlags().String(directoryFlagName, "", directoryFlagDescription)

	initCommand := &cobra.Command{
		Use:   initUseConstant,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runInit,
	}
	flags.AddToggleFlag(initCommand.Flags(), nil, assumeYesFlagName, "", false, assumeYesFlagDescription)

	checkCommand := &cobra.Command{
		Use:   checkUseConstant,
		Short: checkShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runCheck,
	}

	archiveCommand := &cobra.Command{
		Use:   archiveUseConstant,
		Short: archiveShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runArchive,
	}
	archiveCommand.Flags().String(referenceFlagName, "", referenceFlagDescription)

	commitCommand := &cobra.Command{
		Use:   commitUseConstant,
		Short: commitShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runCommit,
	}
	flags.AddToggleFlag(commitCommand.Flags(), nil, assumeYesFlagName, "", false, assumeYesFlagDescription)
	commitCommand.Flags().String(messageFlagName, "", messageFlagDescription)

	groupCommand.AddCommand(initCommand, checkCommand, archiveCommand, commitCommand)

	return groupCommand, nil
}

func (builder *CommandBuilder) runInit(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	assumeYesValue, _ := command.Flags().GetBool(assumeYesFlagName)
	initializationOptions := InitializationOptions{
		WorkingDirectory: builder.resolveWorkingDirectory(command),
		AssumeYes:        assumeYesValue || builder.resolveConfiguration().AssumeYes,
	}

	if ensureError := service.EnsureRepositoryExists(command.Context(), initializationOptions); ensureError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), ensureError)
	}

	return nil
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	if availabilityError := service.EnsureGitAvailable(executionContext); availabilityError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), availabilityError)
	}

	if cleanError := service.EnsureWorkingTreeClean(executionContext, builder.resolveWorkingDirectory(command)); cleanError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), cleanError)
	}

	fmt.Fprint(command.OutOrStdout(), workingTreeCleanMessageConstant)
	return nil
}

func (builder *CommandBuilder) runArchive(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	destinationPath := builder.resolveConfiguration().ArchivePath
	if len(arguments) > 0 {
		destinationPath = strings.TrimSpace(arguments[0])
	}

	referenceValue, _ := command.Flags().GetString(referenceFlagName)
	archiveOptions := ArchiveOptions{
		WorkingDirectory: builder.resolveWorkingDirectory(command),
		DestinationPath:  destinationPath,
		Reference:        referenceValue,
	}

	if archiveError := service.CreateSourceArchive(command.Context(), archiveOptions); archiveError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), archiveError)
	}

	fmt.Fprintf(command.OutOrStdout(), archiveWrittenMessageTemplateCons, destinationPath)
	return nil
}

func (builder *CommandBuilder) runCommit(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	assumeYesValue, _ := command.Flags().GetBool(assumeYesFlagName)
	messageValue, _ := command.Flags().GetString(messageFlagName)
	commitOptions := CommitOptions{
		WorkingDirectory: builder.resolveWorkingDirectory(command),
		Message:          messageValue,
		AssumeYes:        assumeYesValue || builder.resolveConfiguration().AssumeYes,
	}

	commitOutcome, commitError := service.ReviewAndCommit(command.Context(), commitOptions)
	if commitError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), commitError)
	}

	if !commitOutcome.NothingToCommit {
		fmt.Fprintf(command.OutOrStdout(), commitCreatedMessageTemplateCons, commitOutcome.Message)
	}
	return nil
}

func (builder *CommandBuilder) resolveService(command *cobra.Command) (*Service, error) {
	logger := builder.resolveLogger()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	commandOutput := utils.NewFlushingWriter(command.OutOrStdout())
	prompter := ui.NewIOPrompter(command.InOrStdin(), commandOutput)
	return NewService(logger, executor, prompter, prompter, commandOutput)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	humanReadableLogging := builder.humanReadableLoggingEnabled()
	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}

	switch {
	case builder.CommandEventsObserver != nil:
		shellExecutor.SetCommandEventObserver(builder.CommandEventsObserver)
	case humanReadableLogging:
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveWorkingDirectory(command *cobra.Command) string {
	flagValue, _ := command.Flags().GetString(directoryFlagName)
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return pathutils.NewHomeExpander().Expand(trimmedFlagValue)
	}
	return pathutils.NewHomeExpander().Expand(builder.resolveConfiguration().WorkingDirectory)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
