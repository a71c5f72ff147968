// Package config loads the longreader configuration.
//
// Values come from, in increasing precedence: config.yml, the process
// environment (a .env file fills variables that are not already set), and
// variables prefixed with LONGREADER_. config.yml and .env are searched for
// in the working directory, ./config, ./cmd/longreader and the user config
// directory. Environment variables map onto nested keys by splitting on
// underscores, so PIPELINE_SPAWN_INTERVAL=500ms sets pipeline.spawn_interval.
// API keys are also read from ANTHROPIC_API_KEY and OPENAI_API_KEY.
//
//	cfg, err := config.Load()
//	cfg, err := config.Load(config.WithConfigFile("longreader.yml"))
package config
