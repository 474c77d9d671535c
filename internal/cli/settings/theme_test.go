package settings

import (
	"strings"
	"testing"

	"github.com/julianstephens/chime/internal/cli/clitest"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
)

func TestThemeCmd(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    models.Theme
		wantOut string
	}{
		{"print default", []string{""}, models.ThemeLight, "Theme: light"},
		{"set dark", []string{"dark"}, models.ThemeDark, "Theme set to dark"},
		{"toggle twice", []string{"toggle", "toggle"}, models.ThemeLight, "Theme set to light"},
		{"toggle from dark", []string{"dark", "toggle"}, models.ThemeLight, "Theme set to light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := clitest.Memory(t)
			for _, v := range tt.values {
				if err := (&ThemeCmd{Value: v}).Run(env.Context); err != nil {
					t.Fatalf("theme %q failed: %v", v, err)
				}
			}
			if got := env.Context.Session.Theme(); got != tt.want {
				t.Errorf("theme = %s, want %s", got, tt.want)
			}
			if !strings.Contains(env.Output(), tt.wantOut) {
				t.Errorf("output = %q, want %q", env.Output(), tt.wantOut)
			}
		})
	}
}

func TestThemeCmdInvalid(t *testing.T) {
	env := clitest.Memory(t)
	err := (&ThemeCmd{Value: "solarized"}).Run(env.Context)
	if apperrors.ExitCode(err) != apperrors.ExitUsage {
		t.Errorf("error = %v, want usage error", err)
	}
	if env.Context.Session.Theme() != models.ThemeLight {
		t.Errorf("theme changed to %s", env.Context.Session.Theme())
	}
}
