package main

import (
	"errors"
	"flag"

	"github.com/lesgalactiques/galactia/summary"
)

type Config struct {
	SnapshotPath string
	Message      string
	AuthorID     string
	Mentions     string // comma-separated mention ids (the bot's own id included)

	Model    string
	APIKey   string
	Timezone string
}

func (c Config) Validate() error {
	if c.SnapshotPath == "" {
		return errors.New("missing -snapshot")
	}
	if c.Message == "" {
		return errors.New("missing -message")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.Timezone == "" {
		return errors.New("missing -tz")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Model:    "gpt-5-mini",
		Timezone: summary.DefaultTimezone,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "path to a channel snapshot JSON (name, self_id, members, messages)")
	fs.StringVar(&cfg.Message, "message", cfg.Message, "trigger message content")
	fs.StringVar(&cfg.AuthorID, "author", cfg.AuthorID, "trigger author id")
	fs.StringVar(&cfg.Mentions, "mentions", cfg.Mentions, "comma-separated mention ids in the trigger")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "delegate model name")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "OpenAI API key (defaults to OPENAI_API_KEY)")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "pipeline timezone")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
