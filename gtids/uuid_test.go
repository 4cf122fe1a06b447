package gtids

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wippyai/gtid-sets/conv"
)

func TestParseUUIDForms(t *testing.T) {
	inputs := []string{
		"3E11FA47-71CA-11E1-9E33-C80AA9429562",
		"3e11fa47-71ca-11e1-9e33-c80aa9429562",
		"3e11FA47-71ca-11E1-9e33-C80aa9429562",
		"3E11FA4771CA11E19E33C80AA9429562",
		"{3E11FA47-71CA-11E1-9E33-C80AA9429562}",
		"{3e11fa47-71ca-11e1-9e33-c80aa9429562}",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			u, err := ParseUUID(in)
			if err != nil {
				t.Fatalf("ParseUUID(%q): %v", in, err)
			}
			if got := u.String(); got != uuid1Text {
				t.Errorf("String() = %q, want %q", got, uuid1Text)
			}
		})
	}
}

// The boundary separator is decided at the first group boundary and the
// remaining boundaries must agree; a braced form requires it.
func TestParseUUIDErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"",
			`[decode] malformed: Expected at least two hex digits at the beginning of the string: ""`,
		},
		{
			"3E11FA47-71CA",
			`[decode] malformed: Expected "-" after 13 characters, marked by [HERE] in: "3E11FA47-71CA[HERE]"`,
		},
		{
			"3E11FA47-71CA11E1-9E33C80AA9429562",
			`[decode] malformed: Expected "-" after 13 characters, marked by [HERE] in: "3E11FA47-71CA[HERE]11E1-9E33C80AA9429562"`,
		},
		{
			"3E11FA4771CA-11E1-9E33-C80AA9429562",
			`[decode] malformed: Expected hex digit after 12 characters, marked by [HERE] in: "3E11FA4771CA[HERE]-11E1-9E33-C80AA9429562"`,
		},
		{
			"{3E11FA4771CA11E19E33C80AA9429562}",
			`[decode] malformed: Expected "-" after 9 characters, marked by [HERE] in: "{3E11FA47[HERE]71CA11E19E33C80AA9429562}"`,
		},
		{
			"{3E11FA47-71CA-11E1-9E33-C80AA9429562",
			`[decode] malformed: Expected "}" after 37 characters, marked by [HERE] in: "...80AA9429562[HERE]"`,
		},
		{
			"3E11FA47-71CA-11E1-9E33-C80AA942956G",
			`[decode] malformed: Expected hex digit after 35 characters, marked by [HERE] in: "...C80AA942956[HERE]G"`,
		},
		{
			"3E11FA47-71CA-11E1-9E33-C80AA9429562x",
			`[decode] trailing_data: Expected end of string after 36 characters, marked by [HERE] in: "...80AA9429562[HERE]x"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseUUID(tt.input)
			if err == nil {
				t.Fatalf("ParseUUID(%q) succeeded, want %q", tt.input, tt.want)
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("ParseUUID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUUIDBinary(t *testing.T) {
	u := mustUUID(t, uuid1Text)
	raw := conv.EncodeToString(conv.Binary{}, u)
	if want := "\x3e\x11\xfa\x47\x71\xca\x11\xe1\x9e\x33\xc8\x0a\xa9\x42\x95\x62"; raw != want {
		t.Fatalf("binary encoding = %q, want %q", raw, want)
	}

	var back UUID
	if r := conv.Decode(conv.In(conv.Binary{}), raw, &back); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if back != u {
		t.Errorf("round trip = %v, want %v", back, u)
	}

	var short UUID
	r := conv.Decode(conv.In(conv.Binary{}), raw[:UUIDSize-1], &short)
	if r.IsOk() || r.Message() != "Expected fixed-length string" {
		t.Errorf("truncated decode = %q, want fixed-length string error", r)
	}
}

func TestUUIDGoogle(t *testing.T) {
	g := uuid.MustParse(uuid1Text)
	u := FromGoogle(g)
	if u != mustUUID(t, uuid1Text) {
		t.Errorf("FromGoogle = %v, want %v", u, uuid1Text)
	}
	if got, want := u.ToGoogle().String(), strings.ToLower(uuid1Text); got != want {
		t.Errorf("ToGoogle().String() = %q, want %q", got, want)
	}
}

func TestUUIDCmp(t *testing.T) {
	u1 := mustUUID(t, uuid1Text)
	u2 := mustUUID(t, uuid2Text)
	if u2.Cmp(u1) >= 0 {
		t.Errorf("Cmp(%v, %v) = %d, want negative", u2, u1, u2.Cmp(u1))
	}
	if u1.Cmp(u2) <= 0 {
		t.Errorf("Cmp(%v, %v) = %d, want positive", u1, u2, u1.Cmp(u2))
	}
	if u1.Cmp(u1) != 0 {
		t.Errorf("Cmp(u, u) = %d, want 0", u1.Cmp(u1))
	}

	if (UUID{}).IsZero() != true {
		t.Errorf("zero UUID IsZero = false")
	}
	if u1.IsZero() {
		t.Errorf("IsZero = true for %v", u1)
	}
}
