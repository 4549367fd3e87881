package storage

import "context"

// Memory holds the snapshot in process memory.
// Useful for tests and for stores that never need to outlive the process.
type Memory struct {
	data []byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored snapshot, or ErrNotFound if nothing
// has been stored yet.
func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Store keeps a copy of the snapshot.
func (m *Memory) Store(ctx context.Context, data []byte) error {
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

// Close does nothing for the memory backend.
func (m *Memory) Close() error { return nil }

// Ensure Memory implements Backend.
var _ Backend = (*Memory)(nil)
