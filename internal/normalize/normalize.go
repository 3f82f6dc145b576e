// Package normalize converts raw source rows into canonical contacts.
// Each source names its columns differently; the per-source field tables
// map them onto one shape. Normalization is pure: no I/O, no clock.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// ErrMissingName marks a record with no usable name. Callers reject the
// record and count it rather than aborting the run.
var ErrMissingName = eris.New("normalize: record has no name")

// ErrUnknownSource marks a record from a source without a field table.
var ErrUnknownSource = eris.New("normalize: unknown source")

// fieldTable lists, per canonical field, the raw column names to try in
// priority order.
type fieldTable struct {
	firstName    []string
	lastName     []string
	fullName     []string
	email        []string
	organization []string
	position     []string
	location     []string
	urls         []string
	connectedAt  []string
	referredBy   []string
	sourceID     []string
}

var fieldTables = map[model.SourceName]fieldTable{
	model.SourceLinkedIn: {
		firstName:    []string{"First Name"},
		lastName:     []string{"Last Name"},
		email:        []string{"Email Address"},
		organization: []string{"Company"},
		position:     []string{"Position"},
		urls:         []string{"URL"},
		connectedAt:  []string{"Connected On"},
	},
	model.SourceNotion: {
		fullName:     []string{"Name"},
		email:        []string{"Email"},
		organization: []string{"Organisation", "Organization"},
		position:     []string{"Role", "Position"},
		location:     []string{"Location"},
		urls:         []string{"LinkedIn", "Website"},
		referredBy:   []string{"Source", "Referred By"},
		sourceID:     []string{"id", "Page ID"},
	},
	model.SourceMasterXLSX: {
		fullName:     []string{"Name", "Full Name"},
		email:        []string{"Email", "Public Contact Info"},
		organization: []string{"Organization", "Organisation"},
		position:     []string{"Title/Role", "Role", "Title"},
		location:     []string{"Location"},
		urls:         []string{"LinkedIn", "Website"},
		referredBy:   []string{"Source"},
	},
	model.SourceEmailImport: {
		fullName:     []string{"name", "display_name"},
		firstName:    []string{"first_name"},
		lastName:     []string{"last_name"},
		email:        []string{"email", "email_address"},
		organization: []string{"organization", "company"},
		position:     []string{"title", "position"},
		referredBy:   []string{"referred_by"},
	},
}

// connectedAtLayouts covers the LinkedIn export format ("18 Aug 2025")
// and plain ISO dates.
var connectedAtLayouts = []string{"02 Jan 2006", "2006-01-02"}

// Normalize maps a raw record onto the canonical contact shape. The full
// raw field map is preserved on the result. It returns ErrMissingName when
// neither a full name nor name parts are present.
func Normalize(rec model.RawRecord) (model.CanonicalContact, error) {
	if !rec.Source.Valid() {
		return model.CanonicalContact{}, eris.Wrapf(ErrUnknownSource, "source %q", rec.Source)
	}
	table := fieldTables[rec.Source]

	pick := func(keys []string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(rec.Fields[k]); v != "" {
				return v
			}
		}
		return ""
	}

	c := model.CanonicalContact{
		Source:       rec.Source,
		FirstName:    pick(table.firstName),
		LastName:     pick(table.lastName),
		FullName:     pick(table.fullName),
		Email:        strings.ToLower(pick(table.email)),
		Organization: pick(table.organization),
		Position:     pick(table.position),
		Location:     pick(table.location),
		ReferredBy:   pick(table.referredBy),
		Raw:          rec.Fields,
	}

	if c.FullName == "" {
		c.FullName = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	if c.FullName == "" {
		return model.CanonicalContact{}, ErrMissingName
	}

	for _, k := range table.urls {
		if v := strings.TrimSpace(rec.Fields[k]); v != "" {
			c.URLs = append(c.URLs, v)
		}
	}

	if raw := pick(table.connectedAt); raw != "" {
		if ts, err := parseDate(raw); err == nil {
			c.ConnectedAt = &ts
		}
	}

	if rec.Source.KnowledgeBase() {
		c.InKnowledgeBase = true
	}

	c.SourceID = pick(table.sourceID)
	if c.SourceID == "" {
		c.SourceID = deriveID(c)
	}

	return c, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range connectedAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// deriveID builds a stable identifier for sources that carry none: the
// profile URL if present, then the email, then a name+organisation slug.
func deriveID(c model.CanonicalContact) string {
	if len(c.URLs) > 0 {
		return c.URLs[0]
	}
	if c.Email != "" {
		return c.Email
	}
	return slug(c.FullName + " " + c.Organization)
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// DedupeKey identifies probable duplicates inside a single source:
// lower-cased name plus organisation.
func DedupeKey(c model.CanonicalContact) string {
	return strings.ToLower(strings.TrimSpace(c.FullName)) + "|" + strings.ToLower(strings.TrimSpace(c.Organization))
}

// Dedupe collapses records sharing a DedupeKey, keeping the more complete
// record. Order of first appearance is preserved. It returns the survivors
// and the number of duplicates dropped.
func Dedupe(contacts []model.CanonicalContact) ([]model.CanonicalContact, int) {
	index := make(map[string]int, len(contacts))
	out := make([]model.CanonicalContact, 0, len(contacts))
	dropped := 0

	for _, c := range contacts {
		key := DedupeKey(c)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		dropped++
		if c.Completeness() > out[i].Completeness() {
			out[i] = c
		}
	}
	return out, dropped
}
