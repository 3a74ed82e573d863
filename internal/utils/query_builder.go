package utils

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

type QueryBuildResult struct {
	Query string
	Args  []any
}

// UpdateSpec describes which columns of a table may be patched.
type UpdateSpec struct {
	Table         string
	AllowedFields map[string]bool
	// JSONFields are marshalled before binding so they land in jsonb columns.
	JSONFields       map[string]bool
	AutoAddUpdatedAt bool
}

// BuildDynamicUpdateQuery builds an UPDATE with one placeholder per field.
// Columns are emitted in sorted order so the statement is stable.
func BuildDynamicUpdateQuery(spec UpdateSpec, updateData map[string]any, whereField string, whereValue any, now time.Time) (*QueryBuildResult, error) {
	fields := make([]string, 0, len(updateData))
	for field := range updateData {
		if !spec.AllowedFields[field] {
			return nil, fmt.Errorf("field %s is not allowed to be updated", field)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	slices.Sort(fields)

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, field := range fields {
		value := updateData[field]
		if spec.JSONFields[field] {
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("error converting field %s: %w", field, err)
			}
			value = raw
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	if spec.AutoAddUpdatedAt {
		if _, ok := updateData["updated_at"]; !ok {
			args = append(args, now)
			setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))
		}
	}

	args = append(args, whereValue)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		spec.Table,
		strings.Join(setClauses, ", "),
		whereField,
		len(args),
	)

	return &QueryBuildResult{Query: query, Args: args}, nil
}
