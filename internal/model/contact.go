// Package model defines the core data types shared across the pipeline:
// raw source records, canonical contacts, intelligence profiles, and
// cross-source match candidates.
package model

import "time"

// SourceName identifies one of the contact sources the pipeline consumes.
type SourceName string

const (
	SourceLinkedIn    SourceName = "linkedin"
	SourceNotion      SourceName = "notion"
	SourceMasterXLSX  SourceName = "master_xlsx"
	SourceEmailImport SourceName = "email_import"
)

// KnowledgeBase reports whether the source is the organisation's own
// curated knowledge base rather than an external export.
func (s SourceName) KnowledgeBase() bool {
	return s == SourceNotion
}

// CarriesProfileURLs reports whether records from this source can carry a
// stable profile URL usable as an identity key.
func (s SourceName) CarriesProfileURLs() bool {
	return s == SourceLinkedIn || s == SourceNotion
}

// Valid reports whether s is one of the known sources.
func (s SourceName) Valid() bool {
	switch s {
	case SourceLinkedIn, SourceNotion, SourceMasterXLSX, SourceEmailImport:
		return true
	}
	return false
}

// RawRecord is a single row as loaded from a source, before normalization.
// Fields holds the source's own column names verbatim.
type RawRecord struct {
	Source SourceName        `json:"source"`
	Fields map[string]string `json:"fields"`
}

// CanonicalContact is the normalized shape every downstream stage operates
// on. Fields absent in the source are left zero; Raw preserves everything
// the source provided, including columns normalization did not map.
type CanonicalContact struct {
	SourceID     string     `json:"source_id"`
	Source       SourceName `json:"source_name"`
	FullName     string     `json:"full_name"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Organization string     `json:"organization,omitempty"`
	Position     string     `json:"position,omitempty"`
	Location     string     `json:"location,omitempty"`
	URLs         []string   `json:"urls,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
	ReferredBy   string     `json:"referred_by,omitempty"`

	// CrossSources lists the other sources this contact was confidently
	// matched against. InKnowledgeBase is set when one of them is the
	// knowledge base (or the contact originated there).
	CrossSources    []SourceName `json:"cross_sources,omitempty"`
	InKnowledgeBase bool         `json:"in_knowledge_base,omitempty"`

	Raw map[string]string `json:"raw,omitempty"`
}

// Completeness counts how many of the contact's identity-adjacent fields
// are populated. Used for duplicate resolution and the cross-source
// completeness bonus.
func (c CanonicalContact) Completeness() int {
	n := 0
	for _, v := range []string{c.Email, c.Organization, c.Position, c.Location} {
		if v != "" {
			n++
		}
	}
	return n
}

// HasSource reports whether src is the contact's origin or one of its
// matched cross-sources.
func (c CanonicalContact) HasSource(src SourceName) bool {
	if c.Source == src {
		return true
	}
	for _, s := range c.CrossSources {
		if s == src {
			return true
		}
	}
	return false
}

// AddCrossSource records a matched source, ignoring duplicates and the
// contact's own origin.
func (c *CanonicalContact) AddCrossSource(src SourceName) {
	if c.HasSource(src) {
		return
	}
	c.CrossSources = append(c.CrossSources, src)
}
