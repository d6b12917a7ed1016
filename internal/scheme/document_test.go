package scheme_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calendee/expo-cli/internal/scheme"
)

const testPlistContentConstant = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.example.myapp</string>
	<key>CFBundleURLTypes</key>
	<array>
		<dict>
			<key>CFBundleURLName</key>
			<string>com.example.myapp</string>
			<key>CFBundleURLSchemes</key>
			<array>
				<string>myapp</string>
			</array>
		</dict>
	</array>
</dict>
</plist>
`

func TestParseDocumentReadsURLTypes(testInstance *testing.T) {
	document, parseError := scheme.ParseDocument([]byte(testPlistContentConstant))
	require.NoError(testInstance, parseError)

	require.Equal(testInstance, []string{"myapp"}, scheme.ListSchemes(document))
	urlTypes := scheme.URLTypes(document)
	require.Len(testInstance, urlTypes, 1)
	require.Equal(testInstance, "com.example.myapp", urlTypes[0].Name)
}

func TestDocumentRoundTripPreservesSchemesAndUnknownKeys(testInstance *testing.T) {
	document, parseError := scheme.ParseDocument([]byte(testPlistContentConstant))
	require.NoError(testInstance, parseError)

	updatedDocument, appendError := scheme.AppendScheme("exp+myapp", document)
	require.NoError(testInstance, appendError)

	encodedDocument, encodeError := scheme.EncodeDocument(updatedDocument)
	require.NoError(testInstance, encodeError)

	reloadedDocument, reloadError := scheme.ParseDocument(encodedDocument)
	require.NoError(testInstance, reloadError)
	require.Equal(testInstance, []string{"myapp", "exp+myapp"}, scheme.ListSchemes(reloadedDocument))
	require.Equal(testInstance, "com.example.myapp", reloadedDocument["CFBundleIdentifier"])
}

func TestLoadDocumentRequiresPath(testInstance *testing.T) {
	_, loadError := scheme.LoadDocument("")
	require.ErrorIs(testInstance, loadError, scheme.ErrDocumentPathRequired)
}

func TestSaveAndLoadDocumentThroughFilesystem(testInstance *testing.T) {
	documentPath := filepath.Join(testInstance.TempDir(), "Info.plist")
	require.NoError(testInstance, os.WriteFile(documentPath, []byte(testPlistContentConstant), 0o644))

	document, loadError := scheme.LoadDocument(documentPath)
	require.NoError(testInstance, loadError)

	updatedDocument, setError := scheme.SetSchemes([]string{"replacement"}, document)
	require.NoError(testInstance, setError)
	require.NoError(testInstance, scheme.SaveDocument(documentPath, updatedDocument))

	reloadedDocument, reloadError := scheme.LoadDocument(documentPath)
	require.NoError(testInstance, reloadError)
	require.Equal(testInstance, []string{"replacement"}, scheme.ListSchemes(reloadedDocument))
}
