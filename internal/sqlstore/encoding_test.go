package sqlstore

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

func TestEncodeDecodeTermRoundTrip(t *testing.T) {
	cases := []grounding.GroundTerm{
		grounding.Int(42),
		grounding.Str("hello"),
		grounding.UID(uuid.New()),
		grounding.Double(3.5),
	}
	for _, term := range cases {
		encoded := encodeTerm(term)
		decoded, err := decodeTerm(encoded)
		if err != nil {
			t.Fatalf("decodeTerm(%q) failed: %v", encoded, err)
		}
		if !decoded.Equal(term) {
			t.Fatalf("round trip mismatch: %v != %v (encoded %q)", decoded, term, encoded)
		}
	}
}

func TestDecodeTermMalformed(t *testing.T) {
	if _, err := decodeTerm("no-tag-separator"); err == nil {
		t.Fatal("expected an error for an input with no tag separator")
	}
}

func TestDecodeTermUnknownTag(t *testing.T) {
	if _, err := decodeTerm("x:whatever"); err == nil {
		t.Fatal("expected an error for an unrecognized tag")
	}
}

func TestEncodeArgs(t *testing.T) {
	args := encodeArgs([]grounding.GroundTerm{grounding.Str("a"), grounding.Int(1)})
	if len(args) != 2 {
		t.Fatalf("expected 2 encoded args, got %d", len(args))
	}
	if args[0] != "s:a" || args[1] != "i:1" {
		t.Fatalf("unexpected encoding: %v", args)
	}
}
