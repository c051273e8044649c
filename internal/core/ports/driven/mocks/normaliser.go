package mocks

import (
	"sync"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

var _ driven.NormaliserRegistry = (*MockNormaliserRegistry)(nil)

// MockNormaliserRegistry passes content through unless NormaliseFn is set.
// It records the MIME types it was asked to normalise.
type MockNormaliserRegistry struct {
	mu          sync.Mutex
	NormaliseFn func(content, mimeType string) string
	MimeTypes   []string
}

func NewMockNormaliserRegistry() *MockNormaliserRegistry {
	return &MockNormaliserRegistry{}
}

func (m *MockNormaliserRegistry) Get(mimeType string) driven.Normaliser { return nil }

func (m *MockNormaliserRegistry) GetAll(mimeType string) []driven.Normaliser { return nil }

func (m *MockNormaliserRegistry) Register(normaliser driven.Normaliser) {}

func (m *MockNormaliserRegistry) List() []string { return nil }

func (m *MockNormaliserRegistry) Normalise(content, mimeType string) string {
	m.mu.Lock()
	m.MimeTypes = append(m.MimeTypes, mimeType)
	m.mu.Unlock()
	if m.NormaliseFn != nil {
		return m.NormaliseFn(content, mimeType)
	}
	return content
}
