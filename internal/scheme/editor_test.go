package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calendee/expo-cli/internal/scheme"
)

const (
	testPrimarySchemeConstant   = "myapp"
	testSecondarySchemeConstant = "exp+myapp"
	testUnknownSchemeConstant   = "otherapp"
	testBundleNameConstant      = "com.example.myapp"
)

func documentWithSchemes(schemeGroups ...[]string) scheme.InfoPlist {
	records := make([]any, 0, len(schemeGroups))
	for _, schemeGroup := range schemeGroups {
		groupValues := make([]any, 0, len(schemeGroup))
		for _, schemeValue := range schemeGroup {
			groupValues = append(groupValues, schemeValue)
		}
		records = append(records, map[string]any{"CFBundleURLSchemes": groupValues})
	}

	return scheme.InfoPlist{
		"CFBundleIdentifier": testBundleNameConstant,
		"CFBundleURLTypes":   records,
	}
}

func TestAppendSchemePreservesExistingGroups(testInstance *testing.T) {
	document := documentWithSchemes([]string{testPrimarySchemeConstant})

	updatedDocument, appendError := scheme.AppendScheme(testSecondarySchemeConstant, document)
	require.NoError(testInstance, appendError)
	require.Equal(testInstance, []string{testPrimarySchemeConstant, testSecondarySchemeConstant}, scheme.ListSchemes(updatedDocument))
	require.Len(testInstance, scheme.URLTypes(updatedDocument), 2)
}

func TestAppendSchemeIsIdempotentForRegisteredScheme(testInstance *testing.T) {
	document := documentWithSchemes([]string{testPrimarySchemeConstant})

	updatedDocument, appendError := scheme.AppendScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, appendError)
	require.Equal(testInstance, []string{testPrimarySchemeConstant}, scheme.ListSchemes(updatedDocument))
	require.Len(testInstance, scheme.URLTypes(updatedDocument), 1)
}

func TestAppendSchemeRejectsEmptyScheme(testInstance *testing.T) {
	document := documentWithSchemes()

	_, appendError := scheme.AppendScheme("   ", document)
	require.ErrorIs(testInstance, appendError, scheme.ErrEmptyScheme)
}

func TestAppendSchemeStartsURLTypeListWhenAbsent(testInstance *testing.T) {
	document := scheme.InfoPlist{"CFBundleIdentifier": testBundleNameConstant}

	updatedDocument, appendError := scheme.AppendScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, appendError)
	require.Equal(testInstance, []string{testPrimarySchemeConstant}, scheme.ListSchemes(updatedDocument))
	require.Equal(testInstance, testBundleNameConstant, updatedDocument["CFBundleIdentifier"])
}

func TestAppendSchemePreservesEntriesOfUnexpectedShape(testInstance *testing.T) {
	document := scheme.InfoPlist{
		"CFBundleURLTypes": []any{
			"unstructured entry",
			map[string]any{"CFBundleURLSchemes": []any{testPrimarySchemeConstant}},
		},
	}

	updatedDocument, appendError := scheme.AppendScheme(testSecondarySchemeConstant, document)
	require.NoError(testInstance, appendError)
	require.Equal(testInstance, []string{testPrimarySchemeConstant, testSecondarySchemeConstant}, scheme.ListSchemes(updatedDocument))

	updatedEntries, isRawList := updatedDocument["CFBundleURLTypes"].([]any)
	require.True(testInstance, isRawList)
	require.Len(testInstance, updatedEntries, 3)
	require.Equal(testInstance, "unstructured entry", updatedEntries[0])
}

func TestRemoveSchemeDropsGroupsLeftEmpty(testInstance *testing.T) {
	document := documentWithSchemes([]string{testPrimarySchemeConstant}, []string{testSecondarySchemeConstant})

	updatedDocument, removeError := scheme.RemoveScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, removeError)
	require.Equal(testInstance, []string{testSecondarySchemeConstant}, scheme.ListSchemes(updatedDocument))
	require.Len(testInstance, scheme.URLTypes(updatedDocument), 1)
}

func TestRemoveSchemeRetainsGroupsWithRemainingSchemes(testInstance *testing.T) {
	document := documentWithSchemes([]string{testPrimarySchemeConstant, testSecondarySchemeConstant})

	updatedDocument, removeError := scheme.RemoveScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, removeError)
	require.Equal(testInstance, []string{testSecondarySchemeConstant}, scheme.ListSchemes(updatedDocument))
	require.Len(testInstance, scheme.URLTypes(updatedDocument), 1)
}

func TestRemoveSchemeRetainsRecordsWithoutSchemeLists(testInstance *testing.T) {
	document := scheme.InfoPlist{
		"CFBundleIdentifier": testBundleNameConstant,
		"CFBundleURLTypes": []any{
			map[string]any{"CFBundleURLName": testBundleNameConstant},
			map[string]any{"CFBundleURLSchemes": []any{testPrimarySchemeConstant}},
		},
	}

	updatedDocument, removeError := scheme.RemoveScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, removeError)
	require.Empty(testInstance, scheme.ListSchemes(updatedDocument))

	remainingTypes := scheme.URLTypes(updatedDocument)
	require.Len(testInstance, remainingTypes, 1)
	require.Equal(testInstance, testBundleNameConstant, remainingTypes[0].Name)
}

func TestRemoveSchemeRetainsEntriesOfUnexpectedShape(testInstance *testing.T) {
	document := scheme.InfoPlist{
		"CFBundleURLTypes": []any{
			"unstructured entry",
			map[string]any{"CFBundleURLSchemes": []any{testPrimarySchemeConstant, testSecondarySchemeConstant}},
		},
	}

	updatedDocument, removeError := scheme.RemoveScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, removeError)
	require.Equal(testInstance, []string{testSecondarySchemeConstant}, scheme.ListSchemes(updatedDocument))

	remainingEntries, isRawList := updatedDocument["CFBundleURLTypes"].([]any)
	require.True(testInstance, isRawList)
	require.Len(testInstance, remainingEntries, 2)
	require.Equal(testInstance, "unstructured entry", remainingEntries[0])
}

func TestRemoveSchemeWithoutRegistrationsLeavesDocumentUnchanged(testInstance *testing.T) {
	document := scheme.InfoPlist{"CFBundleIdentifier": testBundleNameConstant}

	updatedDocument, removeError := scheme.RemoveScheme(testPrimarySchemeConstant, document)
	require.NoError(testInstance, removeError)
	require.Empty(testInstance, scheme.ListSchemes(updatedDocument))
}

func TestHasSchemeMatchesAnyGroup(testInstance *testing.T) {
	document := documentWithSchemes([]string{testPrimarySchemeConstant}, []string{testSecondarySchemeConstant})

	require.True(testInstance, scheme.HasScheme(testPrimarySchemeConstant, document))
	require.True(testInstance, scheme.HasScheme(testSecondarySchemeConstant, document))
	require.False(testInstance, scheme.HasScheme(testUnknownSchemeConstant, document))
}

func TestSetSchemesRoundTripsThroughListing(testInstance *testing.T) {
	document := documentWithSchemes([]string{testUnknownSchemeConstant})
	desiredSchemes := []string{testPrimarySchemeConstant, testSecondarySchemeConstant}

	updatedDocument, setError := scheme.SetSchemes(desiredSchemes, document)
	require.NoError(testInstance, setError)
	require.Equal(testInstance, desiredSchemes, scheme.ListSchemes(updatedDocument))
}

func TestSetSchemesRejectsEmptySchemeValues(testInstance *testing.T) {
	document := documentWithSchemes()

	_, setError := scheme.SetSchemes([]string{testPrimarySchemeConstant, " "}, document)
	require.ErrorIs(testInstance, setError, scheme.ErrEmptyScheme)
}
