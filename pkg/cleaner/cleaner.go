// Package cleaner provides interfaces and implementations for cleaning page content.
// Cleaners turn raw HTML or scraped text into plain text suitable for
// sentence ranking and entity extraction.
package cleaner

// Cleaner transforms page content into a cleaner format for analysis.
type Cleaner interface {
	// Clean transforms the input content into cleaned text.
	// The accepted input (HTML or plain text) depends on the implementation.
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
