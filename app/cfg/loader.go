package cfg

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Pipeline configuration
	InputPath       string `long:"input" env:"INPUT_PATH" default:"./data/raw_items.json" description:"Raw items file produced by the collector"`
	DataDir         string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for stage snapshots and digest artifacts"`
	RulesPath       string `long:"rules" env:"RULES_PATH" default:"./configs/rules.yaml" description:"Category rules and source trust ranking file"`
	SummaryMaxChars int    `long:"summary-max-chars" env:"SUMMARY_MAX_CHARS" default:"280" description:"Maximum summary length in characters"`

	// Collector configuration
	SourcesPath      string `long:"sources" env:"SOURCES_PATH" default:"./configs/sources.yaml" description:"Collector sources file"`
	Collect          bool   `long:"collect" env:"COLLECT" description:"Run the collector before the pipeline"`
	ItemsPerSource   int    `long:"items-per-source" env:"ITEMS_PER_SOURCE" default:"10" description:"Maximum items collected per source"`
	FetchTimeout     int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"12" description:"Collector HTTP timeout in seconds"`
	FetchConcurrency int    `long:"fetch-concurrency" env:"FETCH_CONCURRENCY" default:"4" description:"Number of concurrent collector workers"`
	EnrichPages      bool   `long:"enrich-pages" env:"ENRICH_PAGES" description:"Fetch article pages to extract description candidates"`

	// Archive and HTTP surface
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/digest.db" description:"SQLite run archive path (empty disables archiving)"`
	Serve  bool   `long:"serve" env:"SERVE" description:"Serve digest artifacts over HTTP after the run"`
	Port   string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"AI-News-Pipeline/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		InputPath:        raw.InputPath,
		DataDir:          raw.DataDir,
		RulesPath:        raw.RulesPath,
		SummaryMaxChars:  raw.SummaryMaxChars,
		SourcesPath:      raw.SourcesPath,
		Collect:          raw.Collect,
		ItemsPerSource:   raw.ItemsPerSource,
		FetchTimeout:     raw.FetchTimeout,
		FetchConcurrency: raw.FetchConcurrency,
		EnrichPages:      raw.EnrichPages,
		DBPath:           raw.DBPath,
		Serve:            raw.Serve,
		Port:             raw.Port,
		UserAgent:        raw.UserAgent,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if cfg.SummaryMaxChars <= 0 {
		return nil, fmt.Errorf("summary-max-chars must be positive, got %d", cfg.SummaryMaxChars)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
