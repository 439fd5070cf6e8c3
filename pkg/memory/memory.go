package memory

import "sync"

// Memory is a bounded, ordered log of strings. When full, the oldest entry
// is dropped.
type Memory struct {
	memoryStream []string
	capacity     int
	mu           sync.RWMutex
}

func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		memoryStream: make([]string, 0, capacity),
		capacity:     capacity,
	}
}

// GetAllMessages returns a copy of all messages in memory
func (m *Memory) GetAllMessages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]string, len(m.memoryStream))
	copy(messages, m.memoryStream)
	return messages
}

// Last returns the most recent entry, if any.
func (m *Memory) Last() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.memoryStream) == 0 {
		return "", false
	}
	return m.memoryStream[len(m.memoryStream)-1], true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.memoryStream)
}

func (m *Memory) Store(data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memoryStream = append(m.memoryStream, data)
	if len(m.memoryStream) > m.capacity {
		m.memoryStream = m.memoryStream[1:]
	}
	return nil
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memoryStream = m.memoryStream[:0]
}
