package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calendee/expo-cli/internal/ui"
)

const (
	testConfirmationPromptConstant = "Initialize a repository? "
	testTextPromptConstant         = "Commit message: "
)

func TestIOPrompterConfirmInterpretsResponses(testInstance *testing.T) {
	testCases := []struct {
		name             string
		input            string
		expectedDecision bool
	}{
		{name: "short_affirmative", input: "y\n", expectedDecision: true},
		{name: "long_affirmative", input: "Yes\n", expectedDecision: true},
		{name: "negative", input: "n\n", expectedDecision: false},
		{name: "empty_line", input: "\n", expectedDecision: false},
		{name: "end_of_input", input: "", expectedDecision: false},
		{name: "padded_affirmative", input: "  yes  \n", expectedDecision: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := ui.NewIOPrompter(strings.NewReader(testCase.input), outputBuffer)

			decision, confirmError := prompter.Confirm(testConfirmationPromptConstant)
			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expectedDecision, decision)
			require.Equal(testInstance, testConfirmationPromptConstant, outputBuffer.String())
		})
	}
}

func TestIOPrompterPromptTextTrimsResponses(testInstance *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedText string
	}{
		{name: "plain_line", input: "first commit\n", expectedText: "first commit"},
		{name: "padded_line", input: "  spaced message \n", expectedText: "spaced message"},
		{name: "empty_line", input: "\n", expectedText: ""},
		{name: "end_of_input", input: "", expectedText: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := ui.NewIOPrompter(strings.NewReader(testCase.input), outputBuffer)

			responseText, promptError := prompter.PromptText(testTextPromptConstant)
			require.NoError(testInstance, promptError)
			require.Equal(testInstance, testCase.expectedText, responseText)
			require.Equal(testInstance, testTextPromptConstant, outputBuffer.String())
		})
	}
}
