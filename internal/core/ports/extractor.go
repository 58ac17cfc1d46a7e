package ports

// EntryPointExtractor determines the identifier the toolchain is told to run.
// Implementations are specific to one source language.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type EntryPointExtractor interface {
	// Extract returns the entry-point identifier declared in code, or an error
	// wrapping domain.ErrEntryPointNotFound.
	Extract(code string) (string, error)
}
