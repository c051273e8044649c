package normalisers

import (
	"cmp"
	"mime"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry picks a normaliser per bill media type. Normalisers are kept in
// descending priority order; ties keep registration order.
//
// A corpus usually carries a single media type, so resolved matches are
// cached per type and the cache is dropped on Register.
type Registry struct {
	mu       sync.RWMutex
	ordered  []driven.Normaliser
	resolved map[string][]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolved: make(map[string][]driven.Normaliser)}
}

// Register adds a normaliser.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// insert after every normaliser of equal or higher priority
	i, _ := slices.BinarySearchFunc(r.ordered, normaliser.Priority(), func(n driven.Normaliser, p int) int {
		if n.Priority() >= p {
			return -1
		}
		return 1
	})
	r.ordered = slices.Insert(r.ordered, i, normaliser)
	clear(r.resolved)
}

// Get returns the highest priority normaliser for mimeType, or nil.
func (r *Registry) Get(mimeType string) driven.Normaliser {
	if matches := r.GetAll(mimeType); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// GetAll returns every normaliser accepting mimeType, highest priority first.
func (r *Registry) GetAll(mimeType string) []driven.Normaliser {
	mediaType := baseMediaType(mimeType)

	r.mu.RLock()
	matches, ok := r.resolved[mediaType]
	r.mu.RUnlock()
	if ok {
		return slices.Clone(matches)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	matches = nil
	for _, n := range r.ordered {
		if slices.ContainsFunc(n.SupportedTypes(), func(pattern string) bool {
			return acceptsMediaType(pattern, mediaType)
		}) {
			matches = append(matches, n)
		}
	}
	r.resolved[mediaType] = matches
	return slices.Clone(matches)
}

// List returns the distinct registered type patterns, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for _, n := range r.ordered {
		for _, t := range n.SupportedTypes() {
			types = append(types, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	slices.SortFunc(types, cmp.Compare[string])
	return slices.Compact(types)
}

// Normalise runs the best normaliser for mimeType over content.
// Content without a matching normaliser passes through unchanged.
func (r *Registry) Normalise(content, mimeType string) string {
	if n := r.Get(mimeType); n != nil {
		return n.Normalise(content, mimeType)
	}
	return content
}

// baseMediaType lowercases mimeType and drops parameters such as charset.
func baseMediaType(mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	mediaType, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// acceptsMediaType reports whether pattern covers mediaType. Patterns may be
// exact ("text/html"), a subtype wildcard ("text/*") or "*/*".
func acceptsMediaType(pattern, mediaType string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "*/*" || pattern == mediaType {
		return true
	}
	prefix, ok := strings.CutSuffix(pattern, "*")
	return ok && strings.HasSuffix(prefix, "/") && strings.HasPrefix(mediaType, prefix)
}

// DefaultRegistry returns a registry with the plain text, Markdown and
// HTML normalisers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range []driven.Normaliser{&PlaintextNormaliser{}, &MarkdownNormaliser{}, &HTMLNormaliser{}} {
		r.Register(n)
	}
	return r
}
