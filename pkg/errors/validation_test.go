package errors

import (
	"strings"
	"testing"
)

func TestValidateSymbolName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "MANGO", false},
		{"valid with space", "DARTH VADER", false},
		{"valid with apostrophe", "REKHA'S CHILLI", false},
		{"valid unicode", "GLÄSSI", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSymbolName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSymbolName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidManifest) {
				t.Errorf("expected INVALID_MANIFEST, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"cards.toml", false},
		{"template/Gobble.TOML", false},
		{"", true},
		{"gobble.xlsx", true},
		{"cards", true},
	}

	for _, tt := range tests {
		err := ValidateManifestFilename(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateOutputDir(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"export", false},
		{"/tmp/gobble/export", false},
		{"", true},
		{"exp\x00ort", true},
		{strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		err := ValidateOutputDir(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
