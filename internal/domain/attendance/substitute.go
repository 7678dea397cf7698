package attendance

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SubstituteRecord is the subset of an upstream substitute assignment used to
// identify the substitute. Every field is optional.
type SubstituteRecord struct {
	SubstituteEmail string
	Email           string
	SubName         string
	Name            string
}

// Identifier returns the lower-cased first non-empty of substitute_email,
// email, sub_name, name, or "" when the record carries none.
func (s SubstituteRecord) Identifier() string {
	for _, v := range []string{s.SubstituteEmail, s.Email, s.SubName, s.Name} {
		if v = strings.TrimSpace(v); v != "" {
			return strings.ToLower(v)
		}
	}
	return ""
}

// DisplayEmail prefers the assignment email over the account email
func (s SubstituteRecord) DisplayEmail() string {
	if s.SubstituteEmail != "" {
		return s.SubstituteEmail
	}
	return s.Email
}

// DisplayName prefers the assignment name over the account name
func (s SubstituteRecord) DisplayName() string {
	if s.SubName != "" {
		return s.SubName
	}
	return s.Name
}

// DecodeSubstitutes accepts either a bare JSON array or an object with a
// "records" array. Malformed input decodes to an empty list and elements that
// are not objects decode to empty records.
func DecodeSubstitutes(raw []byte) []SubstituteRecord {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var envelope struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return []SubstituteRecord{}
		}
		items = envelope.Records
	}

	records := make([]SubstituteRecord, 0, len(items))
	for _, item := range items {
		records = append(records, decodeSubstitute(item))
	}
	return records
}

func decodeSubstitute(raw json.RawMessage) SubstituteRecord {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return SubstituteRecord{}
	}
	return SubstituteRecord{
		SubstituteEmail: stringField(fields, "substitute_email"),
		Email:           stringField(fields, "email"),
		SubName:         stringField(fields, "sub_name"),
		Name:            stringField(fields, "name"),
	}
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// DistinctSubstitutes keeps the first record for every identifier, in input
// order. Records without an identifier are dropped.
func DistinctSubstitutes(records []SubstituteRecord) []SubstituteRecord {
	seen := make(map[string]struct{}, len(records))
	distinct := make([]SubstituteRecord, 0, len(records))
	for _, r := range records {
		id := r.Identifier()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, r)
	}
	return distinct
}
