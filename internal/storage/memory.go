package storage

import "context"

// Memory is a non-persistent Store, used for development and tests.
type Memory struct {
	local
}

type memoryDocs map[string]*GuildConfig

func (m memoryDocs) load(guildID string) (*GuildConfig, bool, error) {
	cfg, ok := m[guildID]
	if !ok {
		return nil, false, nil
	}
	return cfg.Clone(), true, nil
}

func (m memoryDocs) save(cfg *GuildConfig) error {
	m[cfg.GuildID] = cfg.Clone()
	return nil
}

func NewMemory(d Defaults) *Memory {
	return &Memory{local: local{docs: memoryDocs{}, defaults: d}}
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs.(memoryDocs))
}

func (m *Memory) Close(context.Context) error { return nil }
