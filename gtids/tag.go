package gtids

import (
	"bytes"

	"github.com/wippyai/gtid-sets/errors"
)

// TagMaxLen is the maximum number of characters in a tag.
const TagMaxLen = 32

// Tag is a short label refining a UUID into a distinct transaction
// source. A valid tag has up to TagMaxLen characters, the first a
// letter or underscore and the rest letters, digits or underscores.
// Tags are case-insensitive and normalize to lowercase on assignment.
// The zero value is the empty tag, meaning untagged.
//
// Storage is inline; a Tag never allocates, and tags holding the same
// characters compare equal with ==.
type Tag struct {
	chars [TagMaxLen]byte
	size  uint8
}

// NewTag returns the normalized tag for s. The empty string yields the
// empty tag.
func NewTag(s string) (Tag, error) {
	var t Tag
	if !ValidTag(s) {
		return t, errors.InvalidInput(errors.PhaseOperate, "invalid tag")
	}
	t.assign(s)
	return t, nil
}

// MustTag is NewTag for input known to be valid. It panics otherwise.
func MustTag(s string) Tag {
	t, err := NewTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty reports whether the tag is absent.
func (t Tag) Empty() bool { return t.size == 0 }

// Len returns the number of characters.
func (t Tag) Len() int { return int(t.size) }

// Clear resets to the empty tag.
func (t *Tag) Clear() { *t = Tag{} }

// String returns the tag's characters.
func (t Tag) String() string { return string(t.chars[:t.size]) }

// Cmp compares lexicographically; the empty tag sorts first.
func (t Tag) Cmp(other Tag) int {
	return bytes.Compare(t.chars[:t.size], other.chars[:other.size])
}

// assign copies and lowercases s, which must satisfy ValidTag.
func (t *Tag) assign(s string) {
	*t = Tag{size: uint8(len(s))}
	for i := 0; i < len(s); i++ {
		t.chars[i] = lowerChar(s[i])
	}
}

func lowerChar(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// validTagFirstChar allows letters and underscore.
func validTagFirstChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// validTagChar additionally allows digits.
func validTagChar(c byte) bool {
	return validTagFirstChar(c) || (c >= '0' && c <= '9')
}

// ValidTag reports whether s is a well-formed tag. The empty string is
// valid and denotes the absence of a tag.
func ValidTag(s string) bool {
	if len(s) == 0 {
		return true
	}
	if len(s) > TagMaxLen || !validTagFirstChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !validTagChar(s[i]) {
			return false
		}
	}
	return true
}

// tagPrefixLen returns the length of the tag prefix of s and whether
// that prefix is usable. A run of tag characters that is longer than
// TagMaxLen or starts with a digit is not a truncatable tag, so it
// yields false rather than a shorter prefix.
func tagPrefixLen(s string) (int, bool) {
	if len(s) == 0 {
		return 0, true
	}
	if !validTagFirstChar(s[0]) {
		if validTagChar(s[0]) {
			return 0, false
		}
		return 0, true
	}
	end := min(len(s), TagMaxLen)
	for i := 1; i < end; i++ {
		if !validTagChar(s[i]) {
			return i, true
		}
	}
	if len(s) > end && validTagChar(s[end]) {
		return 0, false
	}
	return end, true
}
