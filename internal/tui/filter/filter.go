package filter

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FieldID identifies one filterable purchase-request column. It is the
// stable key that binds a rendered input to the synchronizer and restorer.
type FieldID string

// Tracked filter fields, in table column order.
const (
	FieldRecordID  FieldID = "id"
	FieldName      FieldID = "name"
	FieldDuration  FieldID = "duration"
	FieldGUID      FieldID = "guid"
	FieldPlanYear  FieldID = "plan-year"
	FieldCompany   FieldID = "company"
	FieldCategory  FieldID = "category-code"
	FieldInitiator FieldID = "initiator"
	FieldCreation  FieldID = "creation-date"
	FieldCreatedAt FieldID = "created-at"
	FieldUpdatedAt FieldID = "updated-at"
	FieldTitle     FieldID = "title"
	FieldInnerID   FieldID = "inner-id"
	FieldBudget    FieldID = "budget-amount"
)

// Column describes how a field is shown and queried.
type Column struct {
	ID    FieldID
	Label string // Column header
	Param string // Query parameter and JSON name on the API
	Width int    // Preferred cell width
}

// Columns is the fixed set of tracked fields.
var Columns = []Column{
	{ID: FieldRecordID, Label: "ID", Param: "id", Width: 6},
	{ID: FieldName, Label: "Name", Param: "name", Width: 18},
	{ID: FieldDuration, Label: "Duration", Param: "duration", Width: 9},
	{ID: FieldGUID, Label: "GUID", Param: "guid", Width: 12},
	{ID: FieldPlanYear, Label: "Plan year", Param: "planYear", Width: 9},
	{ID: FieldCompany, Label: "Company", Param: "company", Width: 14},
	{ID: FieldCategory, Label: "Category", Param: "categoryCode", Width: 10},
	{ID: FieldInitiator, Label: "Initiator", Param: "initiator", Width: 14},
	{ID: FieldCreation, Label: "Creation date", Param: "creationDate", Width: 12},
	{ID: FieldCreatedAt, Label: "Created", Param: "createdAt", Width: 12},
	{ID: FieldUpdatedAt, Label: "Updated", Param: "updatedAt", Width: 12},
	{ID: FieldTitle, Label: "Title", Param: "title", Width: 20},
	{ID: FieldInnerID, Label: "Inner ID", Param: "innerId", Width: 9},
	{ID: FieldBudget, Label: "Budget", Param: "budgetAmount", Width: 11},
}

var columnIndex = func() map[FieldID]Column {
	idx := make(map[FieldID]Column, len(Columns))
	for _, c := range Columns {
		idx[c.ID] = c
	}
	return idx
}()

// AllFields returns every tracked field id in column order.
func AllFields() []FieldID {
	ids := make([]FieldID, len(Columns))
	for i, c := range Columns {
		ids[i] = c.ID
	}
	return ids
}

// Lookup returns the column for id.
func Lookup(id FieldID) (Column, bool) {
	c, ok := columnIndex[id]
	return c, ok
}

// ParseFieldID accepts a field id ("plan-year") or its query parameter
// ("planYear"), case-insensitively.
func ParseFieldID(s string) (FieldID, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Columns {
		if strings.EqualFold(s, string(c.ID)) || strings.EqualFold(s, c.Param) {
			return c.ID, true
		}
	}
	return "", false
}

// MatchFields returns, in column order, the field ids matched by any of the
// glob patterns ("created-*", "plan-year").
func MatchFields(patterns []string) ([]FieldID, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid column pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var out []FieldID
	for _, id := range AllFields() {
		for _, g := range globs {
			if g.Match(string(id)) {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

// FieldSet maps field ids to filter text. Missing keys read as "".
type FieldSet map[FieldID]string

// Get returns the value for id, or "".
func (s FieldSet) Get(id FieldID) string {
	return s[id]
}

// With returns a copy of s with id set to value.
func (s FieldSet) With(id FieldID, value string) FieldSet {
	out := s.Clone()
	if value == "" {
		delete(out, id)
	} else {
		out[id] = value
	}
	return out
}

// Clone returns an independent copy holding only non-empty values.
func (s FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(s))
	for k, v := range s {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Diverges reports whether any tracked field differs between s and other.
func (s FieldSet) Diverges(other FieldSet) bool {
	for _, id := range AllFields() {
		if s.Get(id) != other.Get(id) {
			return true
		}
	}
	return false
}

// Equal is the negation of Diverges.
func (s FieldSet) Equal(other FieldSet) bool {
	return !s.Diverges(other)
}

// Changed lists the tracked fields whose values differ, in column order.
func (s FieldSet) Changed(other FieldSet) []FieldID {
	var out []FieldID
	for _, id := range AllFields() {
		if s.Get(id) != other.Get(id) {
			out = append(out, id)
		}
	}
	return out
}

// Params renders the non-empty values keyed by API query parameter.
func (s FieldSet) Params() map[string]string {
	out := make(map[string]string, len(s))
	for id, v := range s {
		if c, ok := columnIndex[id]; ok && v != "" {
			out[c.Param] = v
		}
	}
	return out
}

// Strings renders the non-empty values keyed by field id.
func (s FieldSet) Strings() map[string]string {
	out := make(map[string]string, len(s))
	for id, v := range s {
		if v != "" {
			out[string(id)] = v
		}
	}
	return out
}

// Fields returns the ids with non-empty values in column order.
func (s FieldSet) Fields() []FieldID {
	var out []FieldID
	for _, id := range AllFields() {
		if s.Get(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
