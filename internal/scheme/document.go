package scheme

import (
	"errors"
	"fmt"
	"os"

	"howett.net/plist"
)

const (
	bundleURLTypesKeyConstant   = "CFBundleURLTypes"
	bundleURLSchemesKeyConstant = "CFBundleURLSchemes"
	bundleURLNameKeyConstant    = "CFBundleURLName"

	documentIndentConstant               = "\t"
	documentFilePermissionsConstant      = 0o644
	documentReadErrorTemplateConstant    = "unable to read property list %s: %w"
	documentParseErrorTemplateConstant   = "unable to parse property list %s: %w"
	documentEncodeErrorTemplateConstant  = "unable to encode property list: %w"
	documentWriteErrorTemplateConstant   = "unable to write property list %s: %w"
	documentDecodeErrorTemplateConstant  = "unable to decode property list data: %w"
	documentPathRequiredMessageConstant  = "property list path must be provided"
	documentNotConfiguredMessageConstant = "property list document must not be nil"
)

// Sentinel errors reported by document loading and saving.
var (
	ErrDocumentPathRequired  = errors.New(documentPathRequiredMessageConstant)
	ErrDocumentNotConfigured = errors.New(documentNotConfiguredMessageConstant)
)

// InfoPlist represents a loaded property-list document. Keys outside the
// URL-type list are carried through edits untouched.
type InfoPlist map[string]any

// URLType captures one URL-scheme group registered by the application.
type URLType struct {
	Name    string
	Schemes []string
}

// ParseDocument decodes property-list data into an InfoPlist document.
func ParseDocument(documentData []byte) (InfoPlist, error) {
	document := InfoPlist{}
	if _, unmarshalError := plist.Unmarshal(documentData, &document); unmarshalError != nil {
		return nil, fmt.Errorf(documentDecodeErrorTemplateConstant, unmarshalError)
	}
	return document, nil
}

// EncodeDocument serializes the document as indented XML property-list data.
func EncodeDocument(document InfoPlist) ([]byte, error) {
	if document == nil {
		return nil, ErrDocumentNotConfigured
	}

	documentData, marshalError := plist.MarshalIndent(document, plist.XMLFormat, documentIndentConstant)
	if marshalError != nil {
		return nil, fmt.Errorf(documentEncodeErrorTemplateConstant, marshalError)
	}
	return documentData, nil
}

// LoadDocument reads and decodes the property-list file at the supplied path.
func LoadDocument(documentPath string) (InfoPlist, error) {
	if len(documentPath) == 0 {
		return nil, ErrDocumentPathRequired
	}

	documentData, readError := os.ReadFile(documentPath)
	if readError != nil {
		return nil, fmt.Errorf(documentReadErrorTemplateConstant, documentPath, readError)
	}

	document, parseError := ParseDocument(documentData)
	if parseError != nil {
		return nil, fmt.Errorf(documentParseErrorTemplateConstant, documentPath, parseError)
	}
	return document, nil
}

// SaveDocument encodes the document and writes it to the supplied path.
func SaveDocument(documentPath string, document InfoPlist) error {
	if len(documentPath) == 0 {
		return ErrDocumentPathRequired
	}

	documentData, encodeError := EncodeDocument(document)
	if encodeError != nil {
		return encodeError
	}

	if writeError := os.WriteFile(documentPath, documentData, documentFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(documentWriteErrorTemplateConstant, documentPath, writeError)
	}
	return nil
}

// rawURLTypeRecords returns the CFBundleURLTypes entry as a raw slice so
// that edits can carry entries of unexpected shapes through unchanged.
func rawURLTypeRecords(document InfoPlist) []any {
	if document == nil {
		return nil
	}

	rawRecords, entryExists := document[bundleURLTypesKeyConstant]
	if !entryExists {
		return nil
	}

	switch typedRecords := rawRecords.(type) {
	case []any:
		return typedRecords
	case []map[string]any:
		normalizedRecords := make([]any, 0, len(typedRecords))
		for _, record := range typedRecords {
			normalizedRecords = append(normalizedRecords, record)
		}
		return normalizedRecords
	default:
		return nil
	}
}

// urlTypeRecords normalizes the CFBundleURLTypes entry into record maps.
// Records produced by the property-list decoder arrive as []any of
// map[string]any; records created by this package share that shape.
func urlTypeRecords(document InfoPlist) []map[string]any {
	if document == nil {
		return nil
	}

	rawRecords, entryExists := document[bundleURLTypesKeyConstant]
	if !entryExists {
		return nil
	}

	switch typedRecords := rawRecords.(type) {
	case []map[string]any:
		return typedRecords
	case []any:
		normalizedRecords := make([]map[string]any, 0, len(typedRecords))
		for _, rawRecord := range typedRecords {
			if recordMap, isRecordMap := rawRecord.(map[string]any); isRecordMap {
				normalizedRecords = append(normalizedRecords, recordMap)
			}
		}
		return normalizedRecords
	default:
		return nil
	}
}

// recordSchemes extracts the scheme strings registered by a single record.
func recordSchemes(record map[string]any) []string {
	rawSchemes, entryExists := record[bundleURLSchemesKeyConstant]
	if !entryExists {
		return nil
	}

	switch typedSchemes := rawSchemes.(type) {
	case []string:
		return typedSchemes
	case []any:
		schemeValues := make([]string, 0, len(typedSchemes))
		for _, rawScheme := range typedSchemes {
			if schemeValue, isString := rawScheme.(string); isString {
				schemeValues = append(schemeValues, schemeValue)
			}
		}
		return schemeValues
	default:
		return nil
	}
}

// schemesWithoutValue filters the record's raw scheme list, reporting whether
// the supplied scheme was registered. Entries that are not strings survive
// the filtering untouched.
func schemesWithoutValue(record map[string]any, schemeValue string) ([]any, bool) {
	rawSchemes, entryExists := record[bundleURLSchemesKeyConstant]
	if !entryExists {
		return nil, false
	}

	schemeRegistered := false
	switch typedSchemes := rawSchemes.(type) {
	case []any:
		retainedSchemes := make([]any, 0, len(typedSchemes))
		for _, rawScheme := range typedSchemes {
			if schemeString, isString := rawScheme.(string); isString && schemeString == schemeValue {
				schemeRegistered = true
				continue
			}
			retainedSchemes = append(retainedSchemes, rawScheme)
		}
		return retainedSchemes, schemeRegistered
	case []string:
		retainedSchemes := make([]any, 0, len(typedSchemes))
		for _, schemeString := range typedSchemes {
			if schemeString == schemeValue {
				schemeRegistered = true
				continue
			}
			retainedSchemes = append(retainedSchemes, schemeString)
		}
		return retainedSchemes, schemeRegistered
	default:
		return nil, false
	}
}

func setURLTypeRecords(document InfoPlist, records []map[string]any) {
	rawRecords := make([]any, 0, len(records))
	for _, record := range records {
		rawRecords = append(rawRecords, record)
	}
	document[bundleURLTypesKeyConstant] = rawRecords
}
