package api

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/Iron-Ham/procdash/internal/tui/filter"
)

// Value is a scalar API field rendered as text. The API is inconsistent
// about types (ids and amounts arrive as numbers or strings), so anything
// scalar is accepted and kept verbatim.
type Value string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*v = Value(n.String())
			return nil
		}
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value(strconv.FormatBool(b))
	}
	return nil
}

// PurchaseRequest is one row of the purchase-request table.
type PurchaseRequest struct {
	ID           Value `json:"id"`
	Name         Value `json:"name"`
	Duration     Value `json:"duration"`
	GUID         Value `json:"guid"`
	PlanYear     Value `json:"planYear"`
	Company      Value `json:"company"`
	CategoryCode Value `json:"categoryCode"`
	Initiator    Value `json:"initiator"`
	CreationDate Value `json:"creationDate"`
	CreatedAt    Value `json:"createdAt"`
	UpdatedAt    Value `json:"updatedAt"`
	Title        Value `json:"title"`
	InnerID      Value `json:"innerId"`
	BudgetAmount Value `json:"budgetAmount"`
}

// Field returns the value shown in the column for id.
func (p PurchaseRequest) Field(id filter.FieldID) string {
	switch id {
	case filter.FieldRecordID:
		return string(p.ID)
	case filter.FieldName:
		return string(p.Name)
	case filter.FieldDuration:
		return string(p.Duration)
	case filter.FieldGUID:
		return string(p.GUID)
	case filter.FieldPlanYear:
		return string(p.PlanYear)
	case filter.FieldCompany:
		return string(p.Company)
	case filter.FieldCategory:
		return string(p.CategoryCode)
	case filter.FieldInitiator:
		return string(p.Initiator)
	case filter.FieldCreation:
		return string(p.CreationDate)
	case filter.FieldCreatedAt:
		return string(p.CreatedAt)
	case filter.FieldUpdatedAt:
		return string(p.UpdatedAt)
	case filter.FieldTitle:
		return string(p.Title)
	case filter.FieldInnerID:
		return string(p.InnerID)
	case filter.FieldBudget:
		return string(p.BudgetAmount)
	}
	return ""
}

// Cells renders the record as one string per field, in the given order.
func (p PurchaseRequest) Cells(fields []filter.FieldID) []string {
	out := make([]string, len(fields))
	for i, id := range fields {
		out[i] = p.Field(id)
	}
	return out
}

// Page is one page of purchase requests.
type Page struct {
	Content       []PurchaseRequest `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
}

// Query selects a page of purchase requests.
type Query struct {
	Page    int
	Size    int
	Filters filter.FieldSet
}

// Values encodes the query. Empty filter values are omitted and field ids
// are sent under their camelCase parameter names.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 0)))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	for param, value := range q.Filters.Params() {
		v.Set(param, value)
	}
	return v
}

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is what the API answers a login with. Either field may be
// absent, in which case the session cookie is used.
type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
