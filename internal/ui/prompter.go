package ui

import (
	"bufio"
	"io"
	"strings"
)

const (
	affirmativeShortResponseConstant = "y"
	affirmativeLongResponseConstant  = "yes"
	responseDelimiterConstant        = '\n'
)

// ConfirmationPrompter requests a yes/no decision from the operator.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// TextPrompter requests a free-form line of text from the operator.
type TextPrompter interface {
	PromptText(prompt string) (string, error)
}

// IOPrompter reads confirmation and text responses from an io.Reader.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOPrompter) Confirm(prompt string) (bool, error) {
	response, readError := prompter.readResponse(prompt)
	if readError != nil {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}

// PromptText writes the prompt and returns the trimmed response line.
func (prompter *IOPrompter) PromptText(prompt string) (string, error) {
	return prompter.readResponse(prompt)
}

func (prompter *IOPrompter) readResponse(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString(responseDelimiterConstant)
	if readError != nil && readError != io.EOF {
		return "", readError
	}

	return strings.TrimSpace(response), nil
}
