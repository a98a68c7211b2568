package models

import (
	"encoding/json"
	"testing"
)

func TestParseRoleList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "scalar", raw: "student", want: []string{"student"}},
		{name: "comma joined", raw: "student,mentor", want: []string{"student", "mentor"}},
		{name: "comma joined with spaces", raw: " student , mentor ", want: []string{"student", "mentor"}},
		{name: "json array", raw: `["student","mentor"]`, want: []string{"student", "mentor"}},
		{name: "json array with comma inside element", raw: `["student,mentor"]`, want: []string{"student", "mentor"}},
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "trailing comma", raw: "student,", want: []string{"student"}},
		{name: "malformed json falls back to plain string", raw: "[student", want: []string{"[student"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRoleList(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseRoleList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Membership must behave identically across every accepted shape of the same
// descriptor.
func TestHasRole_AcrossShapes(t *testing.T) {
	shapes := map[string]string{
		"scalar":       "mentor",
		"comma joined": "student,mentor",
		"json array":   `["student","mentor"]`,
	}

	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			profile := &Profile{UserID: "u1", Role: ParseRoleList(raw)}

			if !HasRole(profile, RoleMentor) {
				t.Errorf("HasRole(mentor) = false for shape %q", raw)
			}
			if HasRole(profile, RoleAdmin) {
				t.Errorf("HasRole(admin) = true for shape %q", raw)
			}
		})
	}
}

func TestHasRole_CaseSensitive(t *testing.T) {
	profile := &Profile{Role: ParseRoleList("Mentor")}
	if HasRole(profile, RoleMentor) {
		t.Error("membership must be case-sensitive; Mentor != mentor")
	}
}

func TestHasRole_NilProfile(t *testing.T) {
	if HasRole(nil, RoleStudent) {
		t.Error("nil profile must have no roles")
	}
}

func TestRoleList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "string scalar", data: `"student"`, want: []string{"student"}},
		{name: "string comma joined", data: `"student,mentor"`, want: []string{"student", "mentor"}},
		{name: "array", data: `["student","mentor"]`, want: []string{"student", "mentor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RoleList
			if err := json.Unmarshal([]byte(tt.data), &r); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.data, err)
			}
			if len(r) != len(tt.want) {
				t.Fatalf("got %v, want %v", r, tt.want)
			}
			for i := range r {
				if r[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, r[i], tt.want[i])
				}
			}
		})
	}

	t.Run("unsupported shape", func(t *testing.T) {
		var r RoleList
		if err := json.Unmarshal([]byte(`42`), &r); err == nil {
			t.Fatal("expected error for numeric shape")
		}
	})
}

func TestRoleList_MarshalJSON_AlwaysArray(t *testing.T) {
	data, err := json.Marshal(ParseRoleList("student,mentor"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["student","mentor"]` {
		t.Errorf("got %s, want array shape", data)
	}

	data, err = json.Marshal(RoleList(nil))
	if err != nil {
		t.Fatalf("marshal nil: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("nil descriptor should marshal as [], got %s", data)
	}
}

func TestRoleList_ScanAndValue(t *testing.T) {
	t.Run("scan string shapes", func(t *testing.T) {
		for _, raw := range []string{"mentor", "student,mentor", `["mentor"]`} {
			var r RoleList
			if err := r.Scan(raw); err != nil {
				t.Fatalf("scan %q: %v", raw, err)
			}
			if !r.Has(RoleMentor) {
				t.Errorf("scan %q: mentor missing from %v", raw, r)
			}
		}
	})

	t.Run("scan bytes", func(t *testing.T) {
		var r RoleList
		if err := r.Scan([]byte("admin")); err != nil {
			t.Fatalf("scan bytes: %v", err)
		}
		if !r.Has(RoleAdmin) {
			t.Errorf("admin missing from %v", r)
		}
	})

	t.Run("scan nil", func(t *testing.T) {
		var r RoleList
		if err := r.Scan(nil); err != nil {
			t.Fatalf("scan nil: %v", err)
		}
		if r != nil {
			t.Errorf("expected nil list, got %v", r)
		}
	})

	t.Run("scan unsupported type", func(t *testing.T) {
		var r RoleList
		if err := r.Scan(42); err == nil {
			t.Fatal("expected error for int")
		}
	})

	t.Run("value round trip", func(t *testing.T) {
		r := ParseRoleList("student,mentor")
		v, err := r.Value()
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		if v != "student,mentor" {
			t.Errorf("got %v, want comma-joined string", v)
		}

		var empty RoleList
		v, err = empty.Value()
		if err != nil {
			t.Fatalf("value empty: %v", err)
		}
		if v != nil {
			t.Errorf("empty descriptor should store NULL, got %v", v)
		}
	})
}

func TestRoleList_Primary(t *testing.T) {
	if got := ParseRoleList("mentor,student").Primary(); got != RoleMentor {
		t.Errorf("Primary() = %q, want mentor", got)
	}
	if got := RoleList(nil).Primary(); got != "" {
		t.Errorf("Primary() on empty = %q, want empty", got)
	}
}
