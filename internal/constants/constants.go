package constants

// Default artifact locations. Every path can be overridden through the
// environment; these are what the index and search commands agree on when
// nothing is configured.
const (
	DefaultIndexFile   = "word_index.json"
	DefaultResultsFile = "search_results.json"
	DefaultOutputDir   = "output"
	DefaultHistoryDir  = "db"
	DefaultListenAddr  = ":8080"
	DefaultSoffice     = "soffice"
)
