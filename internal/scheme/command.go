package scheme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/calendee/expo-cli/internal/utils/flags"
)

const (
	groupUseConstant              = "scheme"
	groupShortDescriptionConstant = "Inspect and edit URL-scheme registrations in a property list"
	groupLongDescriptionConstant  = "scheme edits the CFBundleURLTypes list of an application's property-list file so deep links launch the app."

	addUseConstant              = "add <scheme>"
	addShortDescriptionConstant = "Register a URL scheme"
	removeUseConstant           = "remove <scheme>"
	removeShortDescription      = "Remove a URL scheme from every registration group"
	listUseConstant             = "list"
	listShortDescription        = "List registered URL schemes"
	hasUseConstant              = "has <scheme>"
	hasShortDescription         = "Report whether a URL scheme is registered"
	setUseConstant              = "set <scheme> [scheme...]"
	setShortDescription         = "Replace all URL-scheme registrations"
	syncUseConstant             = "sync"
	syncShortDescription        = "Reconcile registrations with a desired-state file"

	plistFlagNameConstant        = "plist"
	plistFlagDescriptionConstant = "Path to the property-list file to edit"
	syncFileFlagNameConstant     = "file"
	syncFileFlagDescription      = "Path to the YAML file listing desired schemes"
	formatFlagNameConstant       = "format"
	formatFlagDescription        = "Output format for the scheme listing"

	listFormatTextConstant = "text"
	listFormatYAMLConstant = "yaml"

	schemeArgumentRequiredMessageConstant = "a scheme argument is required"
	plistPathRequiredMessageConstant      = "a property-list path is required (--plist or configuration)"
	unknownListFormatTemplateConstant     = "unsupported list format: %s"
	commandFailureTemplateConstant        = "scheme %s failed: %w"

	hasSchemeReportTemplateConstant = "%t\n"
	listEntryTemplateConstant       = "%s\n"
	syncDoneMessageConstant         = "schemes already match the desired state\n"
	syncAppliedTemplateConstant     = "applied %d addition(s) and %d removal(s)\n"

	logMessageSchemeAddedConstant   = "url scheme registered"
	logMessageSchemeRemovedConstant = "url scheme removed"
	logMessageSchemesReplaced       = "url schemes replaced"
	logMessageSchemesSynced         = "url schemes synchronized"
	logFieldSchemeConstant          = "scheme"
	logFieldSchemeCountConstant     = "scheme_count"
	logFieldPlistPathConstant       = "plist_path"
	logFieldAdditionCountConstant   = "addition_count"
	logFieldRemovalCountConstant    = "removal_count"
)

var (
	errSchemeArgumentRequired = errors.New(schemeArgumentRequiredMessageConstant)
	errPlistPathRequired      = errors.New(plistPathRequiredMessageConstant)

	listFormatChoices = []string{listFormatTextConstant, listFormatYAMLConstant}
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies configuration for the scheme commands.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command group for scheme editing.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the scheme command group with its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
	}

	groupCommand.PersistentFlags().String(plistFlagNameConstant, "", plistFlagDescriptionConstant)

	addCommand := &cobra.Command{
		Use:   addUseConstant,
		Short: addShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runAdd,
	}

	removeCommand := &cobra.Command{
		Use:   removeUseConstant,
		Short: removeShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runRemove,
	}

	listCommand := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}
	listCommand.Flags().String(
		formatFlagNameConstant,
		listFormatTextConstant,
		flags.FormatChoiceUsage(listFormatTextConstant, listFormatChoices, formatFlagDescription),
	)

	hasCommand := &cobra.Command{
		Use:   hasUseConstant,
		Short: hasShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runHas,
	}

	setCommand := &cobra.Command{
		Use:   setUseConstant,
		Short: setShortDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.runSet,
	}

	syncCommand := &cobra.Command{
		Use:   syncUseConstant,
		Short: syncShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runSync,
	}
	syncCommand.Flags().String(syncFileFlagNameConstant, "", syncFileFlagDescription)

	groupCommand.AddCommand(addCommand, removeCommand, listCommand, hasCommand, setCommand, syncCommand)

	return groupCommand, nil
}

func (builder *CommandBuilder) runAdd(command *cobra.Command, arguments []string) error {
	schemeValue, argumentError := requireSchemeArgument(arguments)
	if argumentError != nil {
		return argumentError
	}

	documentPath, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	updatedDocument, appendError := AppendScheme(schemeValue, document)
	if appendError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), appendError)
	}

	if saveError := SaveDocument(documentPath, updatedDocument); saveError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), saveError)
	}

	builder.resolveLogger().Info(
		logMessageSchemeAddedConstant,
		zap.String(logFieldSchemeConstant, schemeValue),
		zap.String(logFieldPlistPathConstant, documentPath),
	)

	return nil
}

func (builder *CommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	schemeValue, argumentError := requireSchemeArgument(arguments)
	if argumentError != nil {
		return argumentError
	}

	documentPath, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	updatedDocument, removeError := RemoveScheme(schemeValue, document)
	if removeError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), removeError)
	}

	if saveError := SaveDocument(documentPath, updatedDocument); saveError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), saveError)
	}

	builder.resolveLogger().Info(
		logMessageSchemeRemovedConstant,
		zap.String(logFieldSchemeConstant, schemeValue),
		zap.String(logFieldPlistPathConstant, documentPath),
	)

	return nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, arguments []string) error {
	_, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	registeredSchemes := ListSchemes(document)

	formatValue, _ := command.Flags().GetString(formatFlagNameConstant)
	switch strings.ToLower(strings.TrimSpace(formatValue)) {
	case listFormatTextConstant, "":
		for _, registeredScheme := range registeredSchemes {
			fmt.Fprintf(command.OutOrStdout(), listEntryTemplateConstant, registeredScheme)
		}
		return nil
	case listFormatYAMLConstant:
		encodedListing, marshalError := yaml.Marshal(SyncConfiguration{Schemes: registeredSchemes})
		if marshalError != nil {
			return fmt.Errorf(commandFailureTemplateConstant, command.Name(), marshalError)
		}
		_, writeError := command.OutOrStdout().Write(encodedListing)
		return writeError
	default:
		return fmt.Errorf(unknownListFormatTemplateConstant, formatValue)
	}
}

func (builder *CommandBuilder) runHas(command *cobra.Command, arguments []string) error {
	schemeValue, argumentError := requireSchemeArgument(arguments)
	if argumentError != nil {
		return argumentError
	}

	_, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	fmt.Fprintf(command.OutOrStdout(), hasSchemeReportTemplateConstant, HasScheme(schemeValue, document))
	return nil
}

func (builder *CommandBuilder) runSet(command *cobra.Command, arguments []string) error {
	documentPath, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	updatedDocument, setError := SetSchemes(arguments, document)
	if setError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), setError)
	}

	if saveError := SaveDocument(documentPath, updatedDocument); saveError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), saveError)
	}

	builder.resolveLogger().Info(
		logMessageSchemesReplaced,
		zap.Int(logFieldSchemeCountConstant, len(arguments)),
		zap.String(logFieldPlistPathConstant, documentPath),
	)

	return nil
}

func (builder *CommandBuilder) runSync(command *cobra.Command, arguments []string) error {
	syncFileValue, _ := command.Flags().GetString(syncFileFlagNameConstant)
	syncFilePath := strings.TrimSpace(syncFileValue)
	if len(syncFilePath) == 0 {
		syncFilePath = builder.resolveConfiguration().SyncFilePath
	}

	syncConfiguration, syncLoadError := LoadSyncConfiguration(syncFilePath)
	if syncLoadError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), syncLoadError)
	}

	documentPath, document, loadError := builder.loadConfiguredDocument(command)
	if loadError != nil {
		return loadError
	}

	syncPlan := BuildSyncPlan(document, syncConfiguration)
	if syncPlan.IsEmpty() {
		fmt.Fprint(command.OutOrStdout(), syncDoneMessageConstant)
		return nil
	}

	updatedDocument, applyError := ApplySyncPlan(document, syncPlan)
	if applyError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), applyError)
	}

	if saveError := SaveDocument(documentPath, updatedDocument); saveError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, command.Name(), saveError)
	}

	fmt.Fprintf(command.OutOrStdout(), syncAppliedTemplateConstant, len(syncPlan.Additions), len(syncPlan.Removals))

	builder.resolveLogger().Info(
		logMessageSchemesSynced,
		zap.Int(logFieldAdditionCountConstant, len(syncPlan.Additions)),
		zap.Int(logFieldRemovalCountConstant, len(syncPlan.Removals)),
		zap.String(logFieldPlistPathConstant, documentPath),
	)

	return nil
}

func (builder *CommandBuilder) loadConfiguredDocument(command *cobra.Command) (string, InfoPlist, error) {
	documentPath, pathError := builder.resolvePlistPath(command)
	if pathError != nil {
		return "", nil, pathError
	}

	document, loadError := LoadDocument(documentPath)
	if loadError != nil {
		return "", nil, loadError
	}

	return documentPath, document, nil
}

func (builder *CommandBuilder) resolvePlistPath(command *cobra.Command) (string, error) {
	flagValue, _ := command.Flags().GetString(plistFlagNameConstant)
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue, nil
	}

	configuredPath := builder.resolveConfiguration().PlistPath
	if len(configuredPath) > 0 {
		return configuredPath, nil
	}

	return "", errPlistPathRequired
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

func requireSchemeArgument(arguments []string) (string, error) {
	if len(arguments) == 0 {
		return "", errSchemeArgumentRequired
	}

	trimmedScheme := strings.TrimSpace(arguments[0])
	if len(trimmedScheme) == 0 {
		return "", ErrEmptyScheme
	}

	return trimmedScheme, nil
}
