package app

import (
	"strings"
	"testing"

	"github.com/appdrop/appdrop/internal/config"
	"github.com/appdrop/appdrop/internal/installer"
)

func TestResolveOverwritePolicy(t *testing.T) {
	tests := []struct {
		name       string
		onConflict string
		flag       bool
		want       installer.OverwritePolicy
	}{
		{"defaults cancel", "cancel", false, installer.PolicyCancel},
		{"settings overwrite", "overwrite", false, installer.PolicyOverwrite},
		{"flag wins over cancel setting", "cancel", true, installer.PolicyOverwrite},
		{"flag with overwrite setting", "overwrite", true, installer.PolicyOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &config.Settings{OnConflict: tt.onConflict}
			if got := resolveOverwritePolicy(settings, tt.flag); got != tt.want {
				t.Errorf("resolveOverwritePolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"", false}, // EOF counts as no
	}

	for _, tt := range tests {
		var out strings.Builder
		if got := promptYesNo(strings.NewReader(tt.input), &out, "Replace? [y/N]: "); got != tt.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Replace?") {
			t.Errorf("prompt not written for input %q", tt.input)
		}
	}
}
