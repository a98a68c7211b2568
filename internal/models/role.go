package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type RoleTag string

const (
	RoleStudent RoleTag = "student"
	RoleMentor  RoleTag = "mentor"
	RoleAdmin   RoleTag = "admin"
)

// RoleList is the polymorphic role descriptor observed in profile data. The
// same column may hold a scalar string ("student"), a comma-joined string
// ("student,mentor") or a JSON array (["student","mentor"]). All shapes are
// accepted on read and normalized into tokens; do not assume any one shape
// at rest.
type RoleList []string

// ParseRoleList normalizes any accepted shape into its token list. Tokens are
// trimmed of surrounding whitespace; case is preserved (membership checks are
// case-sensitive). Empty tokens are dropped.
func ParseRoleList(raw string) RoleList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	// JSON array shape
	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return splitTokens(arr)
		}
		// Not valid JSON after all; fall through and treat as plain string.
	}

	// Scalar or comma-joined shape
	return splitTokens(strings.Split(raw, ","))
}

func splitTokens(parts []string) RoleList {
	tokens := make(RoleList, 0, len(parts))
	for _, p := range parts {
		// Comma-joined values can hide inside array elements too.
		for _, t := range strings.Split(p, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tokens = append(tokens, t)
			}
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Has reports whether role is present as one of the normalized tokens.
func (r RoleList) Has(role RoleTag) bool {
	for _, t := range r {
		if t == string(role) {
			return true
		}
	}
	return false
}

// Set returns the normalized token set for membership checks.
func (r RoleList) Set() map[RoleTag]bool {
	set := make(map[RoleTag]bool, len(r))
	for _, t := range r {
		set[RoleTag(t)] = true
	}
	return set
}

// Primary returns the first role token, or the empty string for an empty
// descriptor. Used where a single display role is needed.
func (r RoleList) Primary() RoleTag {
	if len(r) == 0 {
		return ""
	}
	return RoleTag(r[0])
}

func (r RoleList) String() string {
	return strings.Join(r, ",")
}

// UnmarshalJSON accepts both the string shapes and the array shape.
func (r *RoleList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseRoleList(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*r = splitTokens(arr)
		return nil
	}

	return fmt.Errorf("role: unsupported JSON shape: %s", string(data))
}

// MarshalJSON always emits the array shape so new writers converge on one
// representation even though all readers stay tolerant.
func (r RoleList) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}

// Scan implements sql.Scanner; the column may contain any accepted shape.
func (r *RoleList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		*r = ParseRoleList(v)
		return nil
	case []byte:
		*r = ParseRoleList(string(v))
		return nil
	default:
		return fmt.Errorf("role: cannot scan %T", value)
	}
}

// Value implements driver.Valuer; stored comma-joined for readability.
func (r RoleList) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return r.String(), nil
}

// HasRole reports whether the profile's role descriptor contains the given
// role, across all accepted shapes. A nil profile has no roles.
func HasRole(profile *Profile, role RoleTag) bool {
	if profile == nil {
		return false
	}
	return profile.Role.Has(role)
}
