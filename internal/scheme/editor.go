package scheme

import (
	"errors"
	"strings"
)

const emptySchemeMessageConstant = "scheme value must not be empty"

// ErrEmptyScheme reports an operation invoked with an empty scheme string.
var ErrEmptyScheme = errors.New(emptySchemeMessageConstant)

// HasScheme reports whether any URL-type record registers the supplied scheme.
func HasScheme(schemeValue string, document InfoPlist) bool {
	for _, record := range urlTypeRecords(document) {
		for _, registeredScheme := range recordSchemes(record) {
			if registeredScheme == schemeValue {
				return true
			}
		}
	}
	return false
}

// ListSchemes returns every registered scheme flattened across URL-type
// records, preserving record order.
func ListSchemes(document InfoPlist) []string {
	registeredSchemes := []string{}
	for _, record := range urlTypeRecords(document) {
		registeredSchemes = append(registeredSchemes, recordSchemes(record)...)
	}
	return registeredSchemes
}

// AppendScheme registers the supplied scheme in a new URL-type record.
// Appending a scheme that is already registered leaves the document
// unchanged; existing records are never removed or reordered.
func AppendScheme(schemeValue string, document InfoPlist) (InfoPlist, error) {
	trimmedScheme := strings.TrimSpace(schemeValue)
	if len(trimmedScheme) == 0 {
		return document, ErrEmptyScheme
	}
	if document == nil {
		return nil, ErrDocumentNotConfigured
	}

	if HasScheme(trimmedScheme, document) {
		return document, nil
	}

	updatedRecords := append(rawURLTypeRecords(document), map[string]any{
		bundleURLSchemesKeyConstant: []any{trimmedScheme},
	})
	document[bundleURLTypesKeyConstant] = updatedRecords

	return document, nil
}

// RemoveScheme deletes the supplied scheme from every URL-type record.
// Records that never registered the scheme are carried through untouched; a
// record whose scheme list the removal emptied is dropped from the list.
func RemoveScheme(schemeValue string, document InfoPlist) (InfoPlist, error) {
	trimmedScheme := strings.TrimSpace(schemeValue)
	if len(trimmedScheme) == 0 {
		return document, ErrEmptyScheme
	}
	if document == nil {
		return nil, ErrDocumentNotConfigured
	}

	existingRecords := rawURLTypeRecords(document)
	if len(existingRecords) == 0 {
		return document, nil
	}

	retainedRecords := make([]any, 0, len(existingRecords))
	for _, rawRecord := range existingRecords {
		record, isRecordMap := rawRecord.(map[string]any)
		if !isRecordMap {
			retainedRecords = append(retainedRecords, rawRecord)
			continue
		}

		retainedSchemes, schemeRegistered := schemesWithoutValue(record, trimmedScheme)
		if !schemeRegistered {
			retainedRecords = append(retainedRecords, record)
			continue
		}
		if len(retainedSchemes) == 0 {
			continue
		}

		record[bundleURLSchemesKeyConstant] = retainedSchemes
		retainedRecords = append(retainedRecords, record)
	}

	document[bundleURLTypesKeyConstant] = retainedRecords

	return document, nil
}

// SetSchemes replaces the entire URL-type list with a single record holding
// the supplied schemes. Every scheme must be non-empty.
func SetSchemes(schemeValues []string, document InfoPlist) (InfoPlist, error) {
	if document == nil {
		return nil, ErrDocumentNotConfigured
	}

	normalizedSchemes := make([]any, 0, len(schemeValues))
	for _, schemeValue := range schemeValues {
		trimmedScheme := strings.TrimSpace(schemeValue)
		if len(trimmedScheme) == 0 {
			return document, ErrEmptyScheme
		}
		normalizedSchemes = append(normalizedSchemes, trimmedScheme)
	}

	setURLTypeRecords(document, []map[string]any{
		{bundleURLSchemesKeyConstant: normalizedSchemes},
	})

	return document, nil
}

// URLTypes returns a structured view of every URL-type record.
func URLTypes(document InfoPlist) []URLType {
	records := urlTypeRecords(document)
	structuredRecords := make([]URLType, 0, len(records))
	for _, record := range records {
		recordName, _ := record[bundleURLNameKeyConstant].(string)
		structuredRecords = append(structuredRecords, URLType{
			Name:    recordName,
			Schemes: recordSchemes(record),
		})
	}
	return structuredRecords
}
