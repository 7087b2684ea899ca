package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gobblegen/gobble/pkg/cache"
	"github.com/gobblegen/gobble/pkg/manifest"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"png", []string{"png"}},
		{"png, json", []string{"png", "json"}},
		{"pdf,,svg,", []string{"pdf", "svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Use != appName {
		t.Errorf("Use = %q", root.Use)
	}
	for _, name := range []string{"generate", "sheet", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestOverridesFromFlags(t *testing.T) {
	cmd := New(io.Discard, LogInfo).generateCommand()

	// Unset flags leave the manifest alone.
	var flags generateFlags
	if o := overridesFromFlags(cmd.Flags(), &flags); o != nil {
		t.Errorf("no flags set, got %+v", o)
	}

	cmd = New(io.Discard, LogInfo).generateCommand()
	if err := cmd.ParseFlags([]string{"--radius", "300", "--seed", "0", "--max-attempts", "-1"}); err != nil {
		t.Fatal(err)
	}
	flags = generateFlags{radius: 300, seed: 0, maxAttempts: -1}
	o := overridesFromFlags(cmd.Flags(), &flags)
	if o == nil || o.Radius == nil || *o.Radius != 300 {
		t.Fatalf("radius override missing: %+v", o)
	}
	if o.Seed == nil || *o.Seed != 0 {
		t.Error("an explicit zero seed must still override")
	}
	if o.MaxAttempts == nil || *o.MaxAttempts != -1 {
		t.Error("max-attempts override missing")
	}
	if o.CoverageThreshold != nil {
		t.Error("coverage was not given")
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if n, err := clearCache(context.Background(), dir); err != nil || n != 0 {
		t.Fatalf("clearCache(missing) = %d, %v", n, err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("clearCache created the directory")
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"layout:a", "layout:b"} {
		if err := fc.Set(ctx, k, []byte(`{"number":1}`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := clearCache(context.Background(), dir); err != nil || n != 2 {
		t.Errorf("clearCache = %d, %v, want 2", n, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	t.Setenv(cacheEnv, "")
	cmd := New(io.Discard, LogInfo).cachePathCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("path = %q", got)
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	t.Setenv(cacheEnv, "")
	if got, _ := cacheLocation(""); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("default location = %q", got)
	}

	t.Setenv(cacheEnv, "redis://cache:6379/0")
	if got, _ := cacheLocation(""); got != "redis://cache:6379/0" {
		t.Errorf("env location = %q", got)
	}
	if got, _ := cacheLocation("/srv/cache"); got != "/srv/cache" {
		t.Errorf("flag should win over env, got %q", got)
	}
}

func pickerManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(`
symbols_per_card = 3

[replacements]
"Symbol 1" = "SUN"

[[card]]
number = 1
symbols = ["Symbol 1", "MOON", "STAR"]

[[card]]
number = 2
symbols = ["SUN", "CLOUD", "RAIN"]

[[card]]
number = 7
symbols = ["MOON", "CLOUD", "SNOW"]
`))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestCardPicker(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		want    []int
		done    bool
		aborted bool
	}{
		{"enter picks the cursor card", []string{"down", "enter"}, []int{2}, true, false},
		{"toggle two", []string{"space", "down", "down", "x", "enter"}, []int{1, 7}, true, false},
		{"toggle off", []string{"space", "space", "down", "space", "enter"}, []int{2}, true, false},
		{"select all", []string{"a", "enter"}, []int{1, 2, 7}, true, false},
		{"select all twice clears", []string{"a", "a", "up", "enter"}, []int{1}, true, false},
		{"cursor stops at the end", []string{"down", "down", "down", "down", "enter"}, []int{7}, true, false},
		{"quit", []string{"space", "q"}, []int{1}, false, true},
		{"escape", []string{"esc"}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewCardPickerModel(pickerManifest(t)), tt.keys...).(CardPickerModel)
			if got := m.Selection(); !slices.Equal(got, tt.want) {
				t.Errorf("Selection() = %v, want %v", got, tt.want)
			}
			if m.Done != tt.done || m.Aborted != tt.aborted {
				t.Errorf("done/aborted = %v/%v, want %v/%v", m.Done, m.Aborted, tt.done, tt.aborted)
			}
		})
	}
}

func TestCardPickerView(t *testing.T) {
	m := press(NewCardPickerModel(pickerManifest(t)), "down", "space").(CardPickerModel)
	view := m.View()
	for _, want := range []string{"Select Cards", "SUN, MOON, STAR", "[x]", "1 selected", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDeckStats(t *testing.T) {
	s := deckStats{cards: 10, failed: 1, attempts: 420, cached: 4}.String()
	for _, want := range []string{"10 cards", "1 failed", "420 attempts", "4 cached", "6 fresh"} {
		if !strings.Contains(s, want) {
			t.Errorf("stats %q missing %q", s, want)
		}
	}
}
