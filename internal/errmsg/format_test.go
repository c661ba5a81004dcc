//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSkinDelete,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpSkinDelete,
			err:      errors.New("built-in skins cannot be deleted"),
			expected: "Failed to delete skin: built-in skins cannot be deleted",
		},
		{
			name:     "skin list operation",
			op:       OpSkinList,
			err:      errors.New("database is locked"),
			expected: "Failed to list skins: database is locked",
		},
		{
			name:     "audio operation",
			op:       OpAudioInit,
			err:      errors.New("no audio device"),
			expected: "Failed to initialize audio output: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSampleLoad,
			context:  "normal-hitclap.wav",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpSampleLoad,
			context:  "normal-hitclap.wav",
			err:      errors.New("permission denied"),
			expected: "Failed to load sample 'normal-hitclap.wav': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpSampleLoad,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to load sample: permission denied",
		},
		{
			name:     "import with directory context",
			op:       OpSkinImport,
			context:  "/home/user/skins/Aristia",
			err:      errors.New("no files found"),
			expected: "Failed to import skin '/home/user/skins/Aristia': no files found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpSkinList, OpSkinImport, OpSkinSelect, OpSkinDelete, OpSkinRestore, OpSkinPurge, OpSkinLoad,
		OpSampleLoad, OpSampleDecode,
		OpAudioInit,
		OpFileStore, OpFileDelete,
		OpSettingsLoad,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
