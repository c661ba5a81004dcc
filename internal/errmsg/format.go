// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Skin operations
	OpSkinList    Op = "list skins"
	OpSkinImport  Op = "import skin"
	OpSkinSelect  Op = "select skin"
	OpSkinDelete  Op = "delete skin"
	OpSkinRestore Op = "restore skin"
	OpSkinPurge   Op = "purge deleted skins"
	OpSkinLoad    Op = "load skin"

	// Sample operations
	OpSampleLoad   Op = "load sample"
	OpSampleDecode Op = "decode sample"

	// Audio output
	OpAudioInit Op = "initialize audio output"

	// File store
	OpFileStore  Op = "store file"
	OpFileDelete Op = "delete file"

	// Settings
	OpSettingsLoad Op = "load settings"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
