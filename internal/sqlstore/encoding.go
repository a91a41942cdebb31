package sqlstore

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// encodeTerm serializes a GroundTerm to the single TEXT column an argument
// position occupies, tagging the constant kind so decodeTerm can recover it
// exactly (SQLite has no native union/variant column type).
func encodeTerm(t grounding.GroundTerm) string {
	switch t.Kind {
	case grounding.IntegerKind:
		return "i:" + strconv.FormatInt(t.Integer, 10)
	case grounding.StringKind:
		return "s:" + t.Str
	case grounding.UniqueIDKind:
		return "u:" + t.UUID.String()
	case grounding.DoubleKind:
		return "d:" + strconv.FormatFloat(t.Double, 'g', -1, 64)
	default:
		return "s:" + t.String()
	}
}

// decodeTerm is encodeTerm's inverse.
func decodeTerm(s string) (grounding.GroundTerm, error) {
	tag, rest, ok := strings.Cut(s, ":")
	if !ok {
		return grounding.GroundTerm{}, errors.Errorf("sqlstore: malformed encoded term %q", s)
	}
	switch tag {
	case "i":
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return grounding.GroundTerm{}, errors.Wrapf(err, "sqlstore: decoding integer term %q", s)
		}
		return grounding.Int(v), nil
	case "s":
		return grounding.Str(rest), nil
	case "u":
		v, err := uuid.Parse(rest)
		if err != nil {
			return grounding.GroundTerm{}, errors.Wrapf(err, "sqlstore: decoding uuid term %q", s)
		}
		return grounding.UID(v), nil
	case "d":
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return grounding.GroundTerm{}, errors.Wrapf(err, "sqlstore: decoding double term %q", s)
		}
		return grounding.Double(v), nil
	default:
		return grounding.GroundTerm{}, errors.Errorf("sqlstore: unknown term tag %q in %q", tag, s)
	}
}

func encodeArgs(values []grounding.GroundTerm) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = encodeTerm(v)
	}
	return out
}
