package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// HistoryBackend represents the implementation used to read version history.
	HistoryBackend string

	// LookupStatus represents the outcome of a single history lookup.
	LookupStatus string

	// MetricView selects which metric tables are rendered.
	MetricView string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All history backends supported.
const (
	GoGitHistory  HistoryBackend = "gogit" // default
	GitCLIHistory HistoryBackend = "git"
)

// All lookup outcomes.
const (
	LookupOK         LookupStatus = "ok"
	LookupNotFound   LookupStatus = "not_found"
	LookupStoreError LookupStatus = "store_error"
)

// All metric views.
const (
	BothView      MetricView = "both" // default
	AgeView       MetricView = "age"
	FrequencyView MetricView = "frequency"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[HistoryBackend]struct{}{
	GoGitHistory:  {},
	GitCLIHistory: {},
}

// ValidMetricViews lists all valid metric views.
var ValidMetricViews = map[MetricView]struct{}{
	BothView:      {},
	AgeView:       {},
	FrequencyView: {},
}
