package ports

// BuildLog maps declared output paths to the fingerprint of the build
// set that produced them. Backends consult it to decide whether a set
// may be skipped and advance it after successful execution.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type BuildLog interface {
	// Hash returns the recorded fingerprint for an output path.
	Hash(output string) (string, bool)

	// Record stores the fingerprint for all outputs of one build set as
	// a single group.
	Record(hash string, outputs []string)

	// Forget drops the entries for the given outputs.
	Forget(outputs []string)
}
