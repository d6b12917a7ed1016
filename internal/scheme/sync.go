package scheme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	syncConfigurationLoadErrorTemplateConstant  = "failed to load scheme sync file: %w"
	syncConfigurationParseErrorTemplateConstant = "failed to parse scheme sync file: %w"
	syncConfigurationPathRequiredMessage        = "scheme sync file path must be provided"
	syncConfigurationEmptySchemeMessage         = "scheme sync file must not contain empty schemes"
)

// Sentinel errors reported while loading sync files.
var (
	ErrSyncFilePathRequired = errors.New(syncConfigurationPathRequiredMessage)
	ErrSyncFileEmptyScheme  = errors.New(syncConfigurationEmptySchemeMessage)
)

// SyncConfiguration describes the desired scheme registrations loaded from YAML.
type SyncConfiguration struct {
	Schemes []string `yaml:"schemes"`
}

// SyncPlan captures the operations required to reconcile a document with a
// desired scheme list.
type SyncPlan struct {
	Additions []string
	Removals  []string
}

// IsEmpty reports whether the plan contains no operations.
func (plan SyncPlan) IsEmpty() bool {
	return len(plan.Additions) == 0 && len(plan.Removals) == 0
}

// LoadSyncConfiguration reads and validates a YAML sync file.
func LoadSyncConfiguration(configurationPath string) (SyncConfiguration, error) {
	trimmedPath := strings.TrimSpace(configurationPath)
	if len(trimmedPath) == 0 {
		return SyncConfiguration{}, ErrSyncFilePathRequired
	}

	configurationData, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return SyncConfiguration{}, fmt.Errorf(syncConfigurationLoadErrorTemplateConstant, readError)
	}

	var configuration SyncConfiguration
	if unmarshalError := yaml.Unmarshal(configurationData, &configuration); unmarshalError != nil {
		return SyncConfiguration{}, fmt.Errorf(syncConfigurationParseErrorTemplateConstant, unmarshalError)
	}

	for _, desiredScheme := range configuration.Schemes {
		if len(strings.TrimSpace(desiredScheme)) == 0 {
			return SyncConfiguration{}, ErrSyncFileEmptyScheme
		}
	}

	return configuration, nil
}

// BuildSyncPlan computes the additions and removals needed so the document
// registers exactly the desired schemes. Repeated occurrences on either side
// contribute a single operation.
func BuildSyncPlan(document InfoPlist, configuration SyncConfiguration) SyncPlan {
	desiredSchemes := make(map[string]struct{}, len(configuration.Schemes))
	plannedRemovals := map[string]struct{}{}
	plan := SyncPlan{}

	for _, desiredScheme := range configuration.Schemes {
		trimmedScheme := strings.TrimSpace(desiredScheme)
		if _, alreadyDesired := desiredSchemes[trimmedScheme]; alreadyDesired {
			continue
		}
		desiredSchemes[trimmedScheme] = struct{}{}
		if !HasScheme(trimmedScheme, document) {
			plan.Additions = append(plan.Additions, trimmedScheme)
		}
	}

	for _, registeredScheme := range ListSchemes(document) {
		if _, stillDesired := desiredSchemes[registeredScheme]; stillDesired {
			continue
		}
		if _, alreadyPlanned := plannedRemovals[registeredScheme]; alreadyPlanned {
			continue
		}
		plannedRemovals[registeredScheme] = struct{}{}
		plan.Removals = append(plan.Removals, registeredScheme)
	}

	return plan
}

// ApplySyncPlan executes the plan against the document.
func ApplySyncPlan(document InfoPlist, plan SyncPlan) (InfoPlist, error) {
	for _, schemeToAdd := range plan.Additions {
		updatedDocument, appendError := AppendScheme(schemeToAdd, document)
		if appendError != nil {
			return document, appendError
		}
		document = updatedDocument
	}

	for _, schemeToRemove := range plan.Removals {
		updatedDocument, removeError := RemoveScheme(schemeToRemove, document)
		if removeError != nil {
			return document, removeError
		}
		document = updatedDocument
	}

	return document, nil
}
