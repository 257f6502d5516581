package app

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	// Note: LogLevel may be empty (triggers precedence logic in logger.go)
	// LogFormat and LogOutput should have defaults
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.LogOutput == "" {
		t.Error("LogOutput not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	// Save original env
	oldVerbose := os.Getenv("CROSSCHECK_VERBOSE")
	oldFormat := os.Getenv("CROSSCHECK_FORMAT")
	defer func() {
		os.Setenv("CROSSCHECK_VERBOSE", oldVerbose)
		os.Setenv("CROSSCHECK_FORMAT", oldFormat)
	}()

	// Set test environment variables
	os.Setenv("CROSSCHECK_VERBOSE", "true")
	os.Setenv("CROSSCHECK_FORMAT", "json")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("CROSSCHECK_VERBOSE environment variable not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
}

// TestConfig_BooleanFlags verifies boolean flag parsing.
func TestConfig_BooleanFlags(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*Config) bool
		want     bool
	}{
		{
			name:     "Verbose",
			envVar:   "CROSSCHECK_VERBOSE",
			envValue: "true",
			check:    func(c *Config) bool { return c.Verbose },
			want:     true,
		},
		{
			name:     "Quiet",
			envVar:   "CROSSCHECK_QUIET",
			envValue: "1",
			check:    func(c *Config) bool { return c.Quiet },
			want:     true,
		},
		{
			name:     "NoColor",
			envVar:   "CROSSCHECK_NO_COLOR",
			envValue: "true",
			check:    func(c *Config) bool { return c.NoColor },
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore env
			old := os.Getenv(tt.envVar)
			defer os.Setenv(tt.envVar, old)

			os.Setenv(tt.envVar, tt.envValue)

			config, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}

			got := tt.check(config)
			if got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// TestConfig_PlansFile verifies plan book path configuration.
func TestConfig_PlansFile(t *testing.T) {
	// Save original env
	oldPlans := os.Getenv("CROSSCHECK_PLANS")
	defer os.Setenv("CROSSCHECK_PLANS", oldPlans)

	// Set test value
	testPath := "/tmp/crosscheck-plans.yaml"
	os.Setenv("CROSSCHECK_PLANS", testPath)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.PlansFile != testPath {
		t.Errorf("PlansFile = %s, want %s", config.PlansFile, testPath)
	}
}

// TestConfig_LoggingOptions verifies logging configuration.
func TestConfig_LoggingOptions(t *testing.T) {
	// Save original env
	oldLevel := os.Getenv("LOG_LEVEL")
	oldFormat := os.Getenv("LOG_FORMAT")
	oldOutput := os.Getenv("LOG_OUTPUT")
	defer func() {
		os.Setenv("LOG_LEVEL", oldLevel)
		os.Setenv("LOG_FORMAT", oldFormat)
		os.Setenv("LOG_OUTPUT", oldOutput)
	}()

	// Set test values
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("LOG_OUTPUT", "stdout")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", config.LogFormat)
	}
	if config.LogOutput != "stdout" {
		t.Errorf("LogOutput = %s, want stdout", config.LogOutput)
	}
}

// TestConfig_ExplicitFile verifies loading from an explicit config file.
func TestConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crosscheck.yaml")

	content := `verbose: true
format: yaml
plans: /etc/crosscheck/plans.yaml
indicators:
  - cpi increase
  - indexation
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(%q) failed: %v", path, err)
	}

	if !config.Verbose {
		t.Error("Verbose not read from config file")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if config.PlansFile != "/etc/crosscheck/plans.yaml" {
		t.Errorf("PlansFile = %s, want /etc/crosscheck/plans.yaml", config.PlansFile)
	}
	if len(config.Indicators) != 2 || config.Indicators[0] != "cpi increase" {
		t.Errorf("Indicators = %v, want [cpi increase indexation]", config.Indicators)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestConfig_ExplicitFileMissing verifies that an explicitly requested
// config file must exist.
func TestConfig_ExplicitFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with missing explicit file should fail")
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence over loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		Verbose:  false,
		Quiet:    true,
		Format:   "json",
		LogLevel: "warn",
	}

	config.UpdateFromFlags(true, false, true, "yaml", "debug")

	if !config.Verbose {
		t.Error("Verbose not updated from flag")
	}
	if config.Quiet {
		t.Error("Quiet not updated from flag")
	}
	if !config.NoColor {
		t.Error("NoColor not updated from flag")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}

	// Empty string flags keep the loaded values
	config.UpdateFromFlags(true, false, true, "", "")
	if config.Format != "yaml" {
		t.Errorf("empty format flag overwrote Format, got %s", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("empty log-level flag overwrote LogLevel, got %s", config.LogLevel)
	}
}
