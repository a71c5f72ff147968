package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the part of the OS the loader touches. Tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem on the host.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (RealFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

func (RealFileSystem) UserConfigDir() (string, error) { return os.UserConfigDir() }

// Resolver finds the config.yml and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files a load will read. Empty means none found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts when set and searches
// for the rest. The project directory is searched before the user config
// directory (e.g. ~/.config/longreader).
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(r.configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(r.envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) configCandidates(serviceName string) []string {
	paths := []string{
		"./config.yml",
		fmt.Sprintf("./%s.yml", serviceName),
		"./config/config.yml",
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
	}
	if dir := r.userDir(serviceName); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yml"))
	}
	return paths
}

func (r *Resolver) envCandidates(serviceName string) []string {
	paths := []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
		fmt.Sprintf("./cmd/%s/.env", serviceName),
		"./config/.env",
	}
	if dir := r.userDir(serviceName); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	return paths
}

func (r *Resolver) userDir(serviceName string) string {
	base, err := r.FileSystem.UserConfigDir()
	if err != nil || base == "" {
		return ""
	}
	return filepath.Join(base, serviceName)
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string              // explicit config file (optional)
	EnvFile    string              // explicit .env file (optional)
	EnvAliases map[string][]string // config key -> extra env var names
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvAlias binds a config key to environment variables whose names do not
// follow the nested-key convention, e.g. rewrite.api_key <- ANTHROPIC_API_KEY.
// The first variable that is set wins.
func WithEnvAlias(key string, envVars ...string) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.EnvAliases == nil {
			lc.EnvAliases = make(map[string][]string)
		}
		lc.EnvAliases[key] = append(lc.EnvAliases[key], envVars...)
	}
}

// LoadConfig reads the service's config.yml and .env, overlays the
// environment and unmarshals the result into cfg. Missing files are not an
// error; a file that exists but cannot be parsed is.
//
// Precedence, lowest first: config.yml, plain environment variables
// (SPEECH_VOICE), variables prefixed with the service name
// (LONGREADER_SPEECH_VOICE), aliases.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)
	fs := lc.FileSystem

	v := viper.New()
	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", files.ConfigFile, err)
		}
	}

	// .env only fills variables that are not already set, so it is loaded
	// before the environment is copied into viper.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("reading env file %s: %w", files.EnvFile, err)
		}
	}

	bindEnv(v, envPrefix(serviceName), os.Environ())
	bindEnvAliases(v, lc.EnvAliases)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding config for %s: %w", serviceName, err)
	}
	return nil
}

// envPrefix is the service-specific variable prefix, e.g. LONGREADER_.
func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_")) + "_"
}

// bindEnv sets every key variant of every variable. Prefixed variables are
// applied last so they override their unprefixed twins.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	var prefixed []string
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			prefixed = append(prefixed, rest+"="+value)
			continue
		}
		setVariants(v, name, value)
	}
	for _, kv := range prefixed {
		name, value, _ := strings.Cut(kv, "=")
		setVariants(v, name, value)
	}
}

func setVariants(v *viper.Viper, name, value string) {
	for _, key := range envKeyVariants(name) {
		v.Set(key, value)
	}
}

// envKeyVariants lists the config keys an environment variable may stand
// for. Underscores are ambiguous between nesting and word breaks, so every
// section/field split is produced:
//
//	PIPELINE_SPAWN_INTERVAL -> pipeline_spawn_interval, pipeline.spawn.interval,
//	                           pipeline.spawn_interval, pipeline_spawn.interval
func envKeyVariants(name string) []string {
	lower := strings.ToLower(name)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	seen := map[string]bool{}
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	add(lower)
	add(strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
		add(strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "."))
	}
	return out
}

// bindEnvAliases sets each aliased key from the first of its variables that
// is present in the environment. Aliases override everything else.
func bindEnvAliases(v *viper.Viper, aliases map[string][]string) {
	for key, envVars := range aliases {
		for _, name := range envVars {
			if value, ok := os.LookupEnv(name); ok && value != "" {
				v.Set(key, value)
				break
			}
		}
	}
}
