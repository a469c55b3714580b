package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the storage backend behind a feed store.
	DatabaseBackend string

	// RetrievalKind represents the outcome of a retrieve operation.
	RetrievalKind string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	MemoryBackend     DatabaseBackend = "memory"
)

// All retrieval outcomes.
const (
	EmptyRetrieval   RetrievalKind = "empty"
	FoundRetrieval   RetrievalKind = "found"
	FailureRetrieval RetrievalKind = "failure"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	MemoryBackend:     {},
}

// IsSQL reports whether the backend is served by database/sql.
func (b DatabaseBackend) IsSQL() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		return true
	default:
		return false
	}
}
