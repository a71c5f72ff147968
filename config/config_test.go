package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("development sets debug true", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "development"}
		cfg.ApplyDefaults()
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", BaseConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid staging", BaseConfig{Name: "svc", Environment: "staging"}, false, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", BaseConfig{Environment: "production"}, true, "base.name is required"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, true, "base.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
base:
  name: test-service
  environment: staging
  version: "1.0.0"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	type TestConfig struct {
		Base BaseConfig `yaml:"base" mapstructure:"base"`
	}

	var cfg TestConfig
	err := LoadConfig("test-service", &cfg, WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Base.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Base.Name)
	}
	if cfg.Base.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Base.Environment)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	type TestConfig struct {
		Base BaseConfig `yaml:"base" mapstructure:"base"`
	}

	var cfg TestConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/longreader/config.yml": true,
		".env.longreader":             true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("longreader", LoaderConfig{})
	if files.ConfigFile != "./cmd/longreader/config.yml" {
		t.Errorf("expected config file at ./cmd/longreader/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env.longreader" {
		t.Errorf("expected env file .env.longreader, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("longreader", LoaderConfig{ConfigFile: "/etc/lr.yml", EnvFile: "/etc/lr.env"})
	if files.ConfigFile != "/etc/lr.yml" || files.EnvFile != "/etc/lr.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool       { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error      { return nil }
func (m *mockFS) UserConfigDir() (string, error) { return "/home/reader/.config", nil }

func TestWithFileSystemOption(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
}

func TestWithConfigFileOption(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
}

func TestWithEnvFileOption(t *testing.T) {
	var lc LoaderConfig
	WithEnvFile("/path/to/.env")(&lc)
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}

func TestWithEnvAliasAccumulates(t *testing.T) {
	var lc LoaderConfig
	WithEnvAlias("speech.api_key", "OPENAI_API_KEY")(&lc)
	WithEnvAlias("speech.api_key", "TTS_KEY")(&lc)
	got := lc.EnvAliases["speech.api_key"]
	if len(got) != 2 || got[0] != "OPENAI_API_KEY" || got[1] != "TTS_KEY" {
		t.Errorf("unexpected aliases %v", got)
	}
}

func TestResolverFallsBackToUserConfigDir(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"/home/reader/.config/longreader/config.yml": true,
		"/home/reader/.config/longreader/.env":       true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("longreader", LoaderConfig{})
	if files.ConfigFile != "/home/reader/.config/longreader/config.yml" {
		t.Errorf("expected user config file, got %q", files.ConfigFile)
	}
	if files.EnvFile != "/home/reader/.config/longreader/.env" {
		t.Errorf("expected user env file, got %q", files.EnvFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("PIPELINE_SPAWN_INTERVAL")
	for _, want := range []string{"pipeline_spawn_interval", "pipeline.spawn.interval", "pipeline.spawn_interval"} {
		found := false
		for _, v := range variants {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, variants)
		}
	}
}

// isolatedFS only reports the given files, so stray config.yml or .env
// files near the test binary are never picked up.
func isolatedFS(paths ...string) *mockFS {
	fs := &mockFS{files: map[string]bool{}}
	for _, p := range paths {
		fs.files[p] = true
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithFileSystem(isolatedFS()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Base.Name != ServiceName {
		t.Errorf("expected name %q, got %q", ServiceName, cfg.Base.Name)
	}
	if cfg.Pipeline.RewriteConcurrency != 3 || cfg.Pipeline.SpeechConcurrency != 3 {
		t.Errorf("expected concurrency 3/3, got %d/%d", cfg.Pipeline.RewriteConcurrency, cfg.Pipeline.SpeechConcurrency)
	}
	if cfg.Pipeline.SpawnInterval != 250*time.Millisecond {
		t.Errorf("expected spawn interval 250ms, got %v", cfg.Pipeline.SpawnInterval)
	}
	if cfg.Stretch.Rate != 1.43 || cfg.Stretch.Engine != "ffmpeg" {
		t.Errorf("unexpected stretch defaults %+v", cfg.Stretch)
	}
	if cfg.Speech.Voice != "alloy" {
		t.Errorf("expected default voice alloy, got %q", cfg.Speech.Voice)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Observability.ServiceName != ServiceName {
		t.Errorf("expected observability service name %q, got %q", ServiceName, cfg.Observability.ServiceName)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yamlContent := `
base:
  environment: production
  version: "1.2.0"
pipeline:
  rewrite_concurrency: 2
  spawn_interval: 100ms
stretch:
  filter: rubberband
  rate: 1.2
speech:
  voice: nova
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(WithFileSystem(isolatedFS(path)), WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Base.Environment != "production" || cfg.Base.Debug {
		t.Errorf("unexpected base %+v", cfg.Base)
	}
	if cfg.Pipeline.RewriteConcurrency != 2 {
		t.Errorf("expected rewrite concurrency 2, got %d", cfg.Pipeline.RewriteConcurrency)
	}
	if cfg.Pipeline.SpeechConcurrency != 3 {
		t.Errorf("expected default speech concurrency 3, got %d", cfg.Pipeline.SpeechConcurrency)
	}
	if cfg.Pipeline.SpawnInterval != 100*time.Millisecond {
		t.Errorf("expected spawn interval 100ms, got %v", cfg.Pipeline.SpawnInterval)
	}
	if cfg.Stretch.Filter != "rubberband" || cfg.Stretch.Rate != 1.2 {
		t.Errorf("unexpected stretch %+v", cfg.Stretch)
	}
	if cfg.Speech.Voice != "nova" {
		t.Errorf("expected voice nova, got %q", cfg.Speech.Voice)
	}
	if cfg.Observability.ServiceVersion != "1.2.0" {
		t.Errorf("expected observability version from base, got %q", cfg.Observability.ServiceVersion)
	}
}

func TestLoadAPIKeysFromVendorVariables(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")

	cfg, err := Load(WithFileSystem(isolatedFS()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rewrite.APIKey != "sk-ant-test" {
		t.Errorf("expected rewrite key from ANTHROPIC_API_KEY, got %q", cfg.Rewrite.APIKey)
	}
	if cfg.Speech.APIKey != "sk-openai-test" {
		t.Errorf("expected speech key from OPENAI_API_KEY, got %q", cfg.Speech.APIKey)
	}
}

func TestLoadPrefixedVariableWins(t *testing.T) {
	t.Setenv("SPEECH_VOICE", "echo")
	t.Setenv("LONGREADER_SPEECH_VOICE", "nova")

	cfg, err := Load(WithFileSystem(isolatedFS()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Speech.Voice != "nova" {
		t.Errorf("expected prefixed variable to win, got %q", cfg.Speech.Voice)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("pipeline:\n  speech_concurrency: 5\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PIPELINE_SPEECH_CONCURRENCY", "2")

	cfg, err := Load(WithFileSystem(isolatedFS(path)), WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.SpeechConcurrency != 2 {
		t.Errorf("expected environment to override file, got %d", cfg.Pipeline.SpeechConcurrency)
	}
}

func TestLoadConfigRejectsUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("base: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg Config
	err := LoadConfig(ServiceName, &cfg, WithFileSystem(isolatedFS(path)), WithConfigFile(path))
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yamlContent := `
stretch:
  engine: sox
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(WithFileSystem(isolatedFS(path)), WithConfigFile(path))
	if err == nil {
		t.Fatal("expected invalid stretch engine to be rejected")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error %q", err.Error())
	}
}
