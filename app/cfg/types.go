package cfg

type Cfg struct {
	// Pipeline configuration
	InputPath       string
	DataDir         string
	RulesPath       string
	SummaryMaxChars int

	// Collector configuration
	SourcesPath      string
	Collect          bool
	ItemsPerSource   int
	FetchTimeout     int
	FetchConcurrency int
	EnrichPages      bool

	// Archive and HTTP surface
	DBPath string
	Serve  bool
	Port   string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
