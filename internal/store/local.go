package store

// MemoryBridge provides an in-memory implementation of Bridge, used in
// tests and wherever durability is not required.
type MemoryBridge struct {
	m map[string][]byte
}

var _ Bridge = (*MemoryBridge)(nil)

// NewMemoryBridge instantiates a new MemoryBridge with an empty map.
func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{
		m: map[string][]byte{},
	}
}

// Load retrieves the value stored under key.
// Returns ErrKeyNotFound if the key has never been saved.
func (b *MemoryBridge) Load(key string) ([]byte, error) {
	data, ok := b.m[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return data, nil
}

// Save writes the value under key.
func (b *MemoryBridge) Save(key string, data []byte) error {
	b.m[key] = data
	return nil
}

// SaveAll writes every entry; the map is only mutated once all entries
// are known, mirroring the all-or-nothing contract of the durable bridge.
func (b *MemoryBridge) SaveAll(entries map[string][]byte) error {
	for key, data := range entries {
		b.m[key] = data
	}
	return nil
}
