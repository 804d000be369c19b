package ports

// Reporter presents build progress on the console: echoed commands,
// skip notices, captured output replays, and clean results.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Command echoes a command line before it runs.
	Command(argv []string)

	// Skip reports a build set skipped as up to date.
	Skip(label string)

	// Replay prints the captured output of a build set.
	Replay(label string, captured []byte)

	// Remove reports a removed output path.
	Remove(path string)

	// RemoveFailed reports a path that could not be removed.
	RemoveFailed(path string, err error)

	// Note prints a plain informational line.
	Note(msg string)
}
