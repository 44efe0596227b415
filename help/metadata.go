package help

import (
	"fmt"
	"strings"
)

// Well-known front matter keys.
const (
	MetaDocumentType     = "document type"
	MetaExternalHelpFile = "external help file"
	MetaHelpURI          = "HelpUri"
	MetaLocale           = "Locale"
	MetaModuleName       = "Module Name"
	MetaModuleGUID       = "Module Guid"
	MetaDate             = "ms.date"
	MetaSchemaVersion    = "PlatyPS schema version"
	MetaTitle            = "title"
	MetaOnlineVersion    = "online version"
	MetaHelpVersion      = "Help Version"
	MetaDownloadHelpLink = "Download Help Link"
	MetaHelpInfoURI      = "HelpInfoUri"
)

// MetadataEntry is one key/value pair of [Metadata].
type MetadataEntry struct {
	Value any
	Key   string
}

// Metadata is an ordered mapping with case-insensitive string keys. Values
// are strings or decoded YAML objects. The zero value is ready to use.
type Metadata struct {
	index   map[string]int
	entries []MetadataEntry
}

// NewMetadata returns an empty [Metadata].
func NewMetadata() *Metadata {
	return &Metadata{}
}

// Set stores value under key. An existing key keeps its position and its
// original spelling; only the value is replaced.
func (m *Metadata) Set(key string, value any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	folded := strings.ToLower(key)
	if i, ok := m.index[folded]; ok {
		m.entries[i].Value = value

		return
	}

	m.index[folded] = len(m.entries)
	m.entries = append(m.entries, MetadataEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	if m == nil || m.index == nil {
		return nil, false
	}

	i, ok := m.index[strings.ToLower(key)]
	if !ok {
		return nil, false
	}

	return m.entries[i].Value, true
}

// String returns the value under key formatted as a string, or "" when the
// key is missing or nil.
func (m *Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Delete removes key, preserving the order of the remaining entries.
func (m *Metadata) Delete(key string) {
	if m == nil || m.index == nil {
		return
	}

	i, ok := m.index[strings.ToLower(key)]
	if !ok {
		return
	}

	m.entries = append(m.entries[:i], m.entries[i+1:]...)

	m.index = make(map[string]int, len(m.entries))
	for j, e := range m.entries {
		m.index[strings.ToLower(e.Key)] = j
	}
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}

	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}

	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Metadata) Entries() []MetadataEntry {
	if m == nil {
		return nil
	}

	out := make([]MetadataEntry, len(m.entries))
	copy(out, m.entries)

	return out
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Merge copies every entry of other into m. Entries from other win on
// conflict.
func (m *Metadata) Merge(other *Metadata) {
	for _, e := range other.Entries() {
		m.Set(e.Key, e.Value)
	}
}

// Clone returns a shallow copy of m.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	for _, e := range m.Entries() {
		out.Set(e.Key, e.Value)
	}

	return out
}
