package classify

import "context"

// Strategy defines a fallback method for categorizing a note when the
// vocabulary table has no match. Implementations must be safe to skip:
// returning found=false is never an error.
type Strategy interface {
	// Classify attempts to assign a canonical category to the note.
	// Returns the category, whether classification succeeded, and any
	// error encountered during the process.
	Classify(ctx context.Context, note string) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging.
	Name() string
}
