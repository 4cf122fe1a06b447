package gtids

import (
	"testing"

	gtidsets "github.com/wippyai/gtid-sets"
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/sets"
)

func fixword(v uint64) string { return conv.EncodeToString(conv.FixintBinary{}, v) }

func bin(v any) string { return conv.EncodeToString(conv.Binary{}, v) }

func seqSet(t *testing.T, text string) *sets.IntervalSet[int64] {
	t.Helper()
	iv := sets.NewIntervalSet(sequenceRange, gtidsets.Resource{})
	if r := conv.Decode(conv.In(conv.Text{}), text, iv); !r.IsOk() {
		t.Fatalf("Decode(%q) = %q", text, r)
	}
	return iv
}

func fixSet(t *testing.T, text string) string {
	t.Helper()
	return conv.EncodeToString(conv.FixintBinary{}, seqSet(t, text))
}

func TestSetBinaryV0(t *testing.T) {
	s := mustParseSet(t, TextFormat{}, uuid1Text+":1-5:10:20-30")
	enc := conv.EncodeToString(BinaryFormat{Version: V0Tagless}, s)
	want := fixword(1) + bin(mustUUID(t, uuid1Text)) + fixSet(t, "1-5,10,20-30")
	if enc != want {
		t.Fatalf("encoding = %q, want %q", enc, want)
	}

	back := NewSet(gtidsets.Resource{})
	if r := conv.Decode(conv.In(BinaryFormat{Version: V0Tagless}), enc, back); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if !back.Equal(s) {
		t.Errorf("round trip = %q, want %q", back, s)
	}

	// The byte between the source count and the version byte belongs to
	// neither and is ignored.
	in := fixword(1 | 0xAB<<48) + bin(mustUUID(t, uuid1Text)) + fixSet(t, "1")
	loose := NewSet(gtidsets.Resource{})
	if r := conv.Decode(conv.In(BinaryFormat{}), in, loose); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if got, want := loose.String(), uuid1Text+":1"; got != want {
		t.Errorf("set = %q, want %q", got, want)
	}
}

func TestSetBinaryV1(t *testing.T) {
	s := mustParseSet(t, TextFormat{Tags: true}, uuid1Text+":1-5:foo:7")
	u1 := mustUUID(t, uuid1Text)

	enc := conv.EncodeToString(BinaryFormat{Version: V1Tags}, s)
	want := fixword(1<<56 | 2<<8 | 1) +
		bin(u1) + bin("") + fixSet(t, "1-5") +
		bin(u1) + bin("foo") + fixSet(t, "7")
	if enc != want {
		t.Fatalf("encoding = %q, want %q", enc, want)
	}

	back := NewSet(gtidsets.Resource{})
	if r := conv.Decode(conv.In(BinaryFormat{}), enc, back); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if !back.Equal(s) {
		t.Errorf("round trip = %q, want %q", back, s)
	}
}

func TestSetBinaryV2(t *testing.T) {
	s := mustParseSet(t, TextFormat{Tags: true}, uuid1Text+":1-5:foo:7")
	u1 := mustUUID(t, uuid1Text)

	enc := conv.EncodeToString(BinaryFormat{Version: V2TagsCompact}, s)
	want := fixword(2<<56 | 2<<8 | 2) +
		bin(uint64(2)) + bin("") + bin("foo") +
		bin(uint64(1)) + bin(u1) + bin(seqSet(t, "1-5")) +
		bin(uint64(2)) + bin(seqSet(t, "7"))
	if enc != want {
		t.Fatalf("encoding = %q, want %q", enc, want)
	}

	back := NewSet(gtidsets.Resource{})
	if r := conv.Decode(conv.In(BinaryFormat{}), enc, back); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if !back.Equal(s) {
		t.Errorf("round trip = %q, want %q", back, s)
	}
}

func TestSetBinaryEmpty(t *testing.T) {
	empty := NewSet(gtidsets.Resource{})
	tests := []struct {
		name string
		f    BinaryFormat
		want string
	}{
		{"automatic", BinaryFormat{}, fixword(0)},
		{"v0", BinaryFormat{Version: V0Tagless}, fixword(0)},
		{"v1", BinaryFormat{Version: V1Tags}, fixword(1<<56 | 1)},
		{"v2", BinaryFormat{Version: V2TagsCompact}, fixword(2<<56 | 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := conv.EncodeToString(tt.f, empty)
			if enc != tt.want {
				t.Fatalf("encoding = %q, want %q", enc, tt.want)
			}
			back := NewSet(gtidsets.Resource{})
			if r := conv.Decode(conv.In(BinaryFormat{}), enc, back); !r.IsOk() {
				t.Fatalf("Decode = %q", r)
			}
			if !back.Empty() {
				t.Errorf("decoded set = %q, want empty", back)
			}
		})
	}
}

// Automatic picks version 0 for tagless sets and version 1 as soon as
// a tag appears; the version byte sits at the top of the header word.
func TestSetBinaryAutomatic(t *testing.T) {
	tagless := mustParseSet(t, TextFormat{}, uuid1Text+":1-5")
	if enc := conv.EncodeToString(BinaryFormat{}, tagless); enc[7] != 0 {
		t.Errorf("tagless version byte = %d, want 0", enc[7])
	}
	tagged := mustParseSet(t, TextFormat{Tags: true}, uuid1Text+":foo:1-5")
	if enc := conv.EncodeToString(BinaryFormat{}, tagged); enc[7] != 1 {
		t.Errorf("tagged version byte = %d, want 1", enc[7])
	}
}

func TestSetBinaryRoundTrip(t *testing.T) {
	mixed := mustParseSet(t, TextFormat{Tags: true},
		uuid2Text+":bar:7,"+uuid1Text+":1-5:10")
	for _, v := range []Version{V1Tags, V2TagsCompact} {
		enc := conv.EncodeToString(BinaryFormat{Version: v}, mixed)

		pinned := NewSet(gtidsets.Resource{})
		if r := conv.Decode(conv.In(BinaryFormat{Version: v}), enc, pinned); !r.IsOk() {
			t.Fatalf("version %d: Decode = %q", v, r)
		}
		if !pinned.Equal(mixed) {
			t.Errorf("version %d: round trip = %q, want %q", v, pinned, mixed)
		}

		auto := NewSet(gtidsets.Resource{})
		if r := conv.Decode(conv.In(BinaryFormat{}), enc, auto); !r.IsOk() {
			t.Fatalf("version %d: automatic Decode = %q", v, r)
		}
		if !auto.Equal(mixed) {
			t.Errorf("version %d: automatic round trip = %q, want %q", v, auto, mixed)
		}
	}
}

func TestSetBinaryDecodeErrors(t *testing.T) {
	u1 := mustUUID(t, uuid1Text)
	tests := []struct {
		name  string
		f     BinaryFormat
		input string
		want  string
	}{
		{
			"future version",
			BinaryFormat{},
			fixword(3<<56 | 1<<8 | 3),
			"Unknown (future?) GTID set format version number in GTID encoding",
		},
		{
			"mismatched version bytes",
			BinaryFormat{},
			fixword(1<<56 | 1<<8 | 2),
			"Inconsistent GTID set format version numbers in GTID encoding",
		},
		{
			"pinned version refused",
			BinaryFormat{Version: V0Tagless},
			fixword(1<<56 | 1),
			"Disallowed GTID set format version number in GTID encoding",
		},
		{
			"malformed tag",
			BinaryFormat{},
			fixword(1<<56 | 1<<8 | 1) + bin(u1) + bin("9x") + fixSet(t, "1"),
			"Invalid tag",
		},
		{
			"tag index out of range",
			BinaryFormat{},
			fixword(2<<56 | 1<<8 | 2) + bin(uint64(1)) + bin("") + bin(uint64(11)),
			"Tag index out of range",
		},
		{
			"first pair without uuid",
			BinaryFormat{},
			fixword(2<<56 | 1<<8 | 2) + bin(uint64(1)) + bin("") + bin(uint64(0)),
			"No UUID given for first Tsid",
		},
		{
			"truncated uuid",
			BinaryFormat{},
			fixword(1) + "\x01\x02\x03",
			"Expected fixed-length string",
		},
		{
			"truncated header",
			BinaryFormat{},
			"\x01\x02",
			"Expected 8-byte unsigned integer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet(gtidsets.Resource{})
			r := conv.Decode(conv.In(tt.f), tt.input, s)
			if r.IsOk() {
				t.Fatalf("Decode succeeded, want %q", tt.want)
			}
			if got := r.Message(); got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}

	s := NewSet(gtidsets.Resource{})
	enc := conv.EncodeToString(BinaryFormat{}, mustParseSet(t, TextFormat{}, uuid1Text+":1"))
	if r := conv.Decode(conv.In(BinaryFormat{}), enc+"\x00", s); !r.IsFullmatchError() {
		t.Errorf("trailing byte: %q, want full-match error", r)
	}
}

func TestSetBinaryDecodeOOM(t *testing.T) {
	in := fixword(1) + bin(mustUUID(t, uuid1Text)) + fixSet(t, "1")
	s := NewSet(gtidsets.NewFailingResource(1))
	r := conv.Decode(conv.In(BinaryFormat{}), in, s)
	if !r.IsStoreError() || r.String() != "Out of memory" {
		t.Fatalf("Decode = %q, want store error", r)
	}
	if !s.Empty() {
		t.Errorf("set after failed decode = %q, want empty", s)
	}
}

func TestSetBinaryTaggedV0Panics(t *testing.T) {
	s := mustParseSet(t, TextFormat{Tags: true}, uuid1Text+":foo:1")
	defer func() {
		if got := recover(); got != "gtids: tag in a version 0 encoding" {
			t.Errorf("recover() = %v, want version 0 tag panic", got)
		}
	}()
	conv.EncodeToString(BinaryFormat{Version: V0Tagless}, s)
}

func TestGTIDBinary(t *testing.T) {
	g := mustGTID(t, uuid1Text+":foo:4711")
	enc := conv.EncodeToString(conv.Binary{}, g)
	want := bin(mustUUID(t, uuid1Text)) + bin("foo") + bin(int64(4711))
	if enc != want {
		t.Fatalf("encoding = %q, want %q", enc, want)
	}

	var back GTID
	if r := conv.Decode(conv.In(conv.Binary{}), enc, &back); !r.IsOk() {
		t.Fatalf("Decode = %q", r)
	}
	if back != g {
		t.Errorf("round trip = %v, want %v", back, g)
	}

	bad := bin(mustUUID(t, uuid1Text)) + bin("") + bin(int64(0))
	r := conv.Decode(conv.In(conv.Binary{}), bad, &back)
	if r.IsOk() || r.Message() != "GTID sequence number out of range" {
		t.Errorf("zero sequence number: %q, want range error", r)
	}
}
