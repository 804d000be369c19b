// export_test.go exposes private functions for white-box testing.
package logger

// Exported for tests.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
