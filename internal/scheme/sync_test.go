package scheme_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calendee/expo-cli/internal/scheme"
)

const testSyncFileContentConstant = "schemes:\n  - myapp\n  - exp+myapp\n"

func TestLoadSyncConfigurationParsesSchemes(testInstance *testing.T) {
	syncFilePath := filepath.Join(testInstance.TempDir(), "schemes.yaml")
	require.NoError(testInstance, os.WriteFile(syncFilePath, []byte(testSyncFileContentConstant), 0o644))

	configuration, loadError := scheme.LoadSyncConfiguration(syncFilePath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"myapp", "exp+myapp"}, configuration.Schemes)
}

func TestLoadSyncConfigurationRejectsEmptySchemes(testInstance *testing.T) {
	syncFilePath := filepath.Join(testInstance.TempDir(), "schemes.yaml")
	require.NoError(testInstance, os.WriteFile(syncFilePath, []byte("schemes:\n  - myapp\n  - \"\"\n"), 0o644))

	_, loadError := scheme.LoadSyncConfiguration(syncFilePath)
	require.ErrorIs(testInstance, loadError, scheme.ErrSyncFileEmptyScheme)
}

func TestLoadSyncConfigurationRequiresPath(testInstance *testing.T) {
	_, loadError := scheme.LoadSyncConfiguration("  ")
	require.ErrorIs(testInstance, loadError, scheme.ErrSyncFilePathRequired)
}

func TestBuildSyncPlanComputesAdditionsAndRemovals(testInstance *testing.T) {
	document := documentWithSchemes([]string{"myapp"}, []string{"legacyapp"})
	configuration := scheme.SyncConfiguration{Schemes: []string{"myapp", "exp+myapp"}}

	syncPlan := scheme.BuildSyncPlan(document, configuration)
	require.Equal(testInstance, []string{"exp+myapp"}, syncPlan.Additions)
	require.Equal(testInstance, []string{"legacyapp"}, syncPlan.Removals)
	require.False(testInstance, syncPlan.IsEmpty())
}

func TestBuildSyncPlanDeduplicatesRepeatedRegistrations(testInstance *testing.T) {
	document := documentWithSchemes([]string{"legacyapp"}, []string{"legacyapp", "myapp"})
	configuration := scheme.SyncConfiguration{Schemes: []string{"myapp", "myapp", "exp+myapp"}}

	syncPlan := scheme.BuildSyncPlan(document, configuration)
	require.Equal(testInstance, []string{"exp+myapp"}, syncPlan.Additions)
	require.Equal(testInstance, []string{"legacyapp"}, syncPlan.Removals)
}

func TestBuildSyncPlanReportsEmptyWhenStatesMatch(testInstance *testing.T) {
	document := documentWithSchemes([]string{"myapp"})
	configuration := scheme.SyncConfiguration{Schemes: []string{"myapp"}}

	require.True(testInstance, scheme.BuildSyncPlan(document, configuration).IsEmpty())
}

func TestApplySyncPlanReconcilesDocument(testInstance *testing.T) {
	document := documentWithSchemes([]string{"myapp"}, []string{"legacyapp"})
	configuration := scheme.SyncConfiguration{Schemes: []string{"myapp", "exp+myapp"}}

	updatedDocument, applyError := scheme.ApplySyncPlan(document, scheme.BuildSyncPlan(document, configuration))
	require.NoError(testInstance, applyError)
	require.ElementsMatch(testInstance, configuration.Schemes, scheme.ListSchemes(updatedDocument))
}
