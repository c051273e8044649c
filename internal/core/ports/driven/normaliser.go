package driven

import "github.com/custodia-labs/energy-index/internal/core/domain"

// Normaliser normalizes raw bill content before tokenization.
// It transforms format-specific content (HTML, Markdown) into plain text.
type Normaliser interface {
	// Normalise transforms raw content into plain text.
	// The mimeType helps determine the appropriate processing.
	Normalise(content string, mimeType string) string

	// SupportedTypes returns MIME types this normaliser handles.
	// Can include wildcards like "text/*" or specific types like "text/markdown".
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-89:  Format-specific (HTML, Markdown)
	//   10-49:  Generic (basic text processing)
	//   1-9:    Fallback (raw text)
	Priority() int
}

// NormaliserRegistry manages content normalisers.
// When multiple normalisers match a MIME type, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a MIME type.
	// Returns nil if no normaliser is registered for the type.
	Get(mimeType string) Normaliser

	// GetAll retrieves all normalisers that match a MIME type, sorted by priority (highest first).
	GetAll(mimeType string) []Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered MIME types.
	List() []string

	// Normalise applies the best-matching normaliser.
	// Content is returned unchanged when no normaliser matches.
	Normalise(content, mimeType string) string
}

// TokenFilter is one stage of the cleaning pipeline.
// Stages form a pipeline: punctuation -> digits -> short words -> ... -> stopwords.
type TokenFilter interface {
	// Filter transforms the tokens produced by the previous stage.
	// The first stage receives the text split on whitespace.
	Filter(tokens []string) []string

	// Name returns the stage name for logging/debugging.
	Name() string

	// Order returns the stage order in the pipeline (lower = earlier).
	Order() int
}

// TokenPipeline chains token filters in order.
type TokenPipeline interface {
	// Process splits text on whitespace and applies every filter in order.
	Process(text string) []string

	// Add adds a filter to the pipeline.
	// Filters are sorted by Order() before processing.
	Add(filter TokenFilter)

	// List returns filter names in order.
	List() []string
}

// Tokenizer turns raw document text into a cleaned token sequence.
type Tokenizer interface {
	// Tokenize cleans text and optionally reduces tokens to their lemma.
	Tokenize(text string, lemmatize bool) domain.TokenSequence
}

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	// Lemma returns the base form of word, or word itself when unknown.
	Lemma(word string) string
}
