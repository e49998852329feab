package lattice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	KindAny Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Primitive is a flat lattice of scalar types below a single Any element.
// Numeric kinds additionally carry a bit width, where 0 means unsized.
type Primitive struct {
	Kind  Kind
	Width int
}

var _ Entity[Primitive] = Primitive{}

func Any() Primitive { return Primitive{Kind: KindAny} }

func Bool() Primitive { return Primitive{Kind: KindBool} }

func Int(width int) Primitive { return Primitive{Kind: KindInt, Width: width} }

func Uint(width int) Primitive { return Primitive{Kind: KindUint, Width: width} }

func Float(width int) Primitive { return Primitive{Kind: KindFloat, Width: width} }

func String() Primitive { return Primitive{Kind: KindString} }

func (p Primitive) String() string {
	if p.Width != 0 {
		return fmt.Sprintf("%s%d", p.Kind, p.Width)
	}
	return p.Kind.String()
}

func (p Primitive) Unconstrained() Primitive {
	return Any()
}

// Arity reports none: primitives have no structural subcomponents.
func (p Primitive) Arity() (int, bool) {
	return 0, false
}

// Converge combines two primitives: Any yields the other side unchanged,
// equal kinds converge with the wider of the two widths (unsized adopts
// sized), and distinct kinds cannot converge.
func (p Primitive) Converge(other Primitive) (Primitive, error) {
	switch {
	case p.Kind == KindAny:
		return other, nil
	case other.Kind == KindAny:
		return p, nil
	case p.Kind != other.Kind:
		return Primitive{}, errors.Wrapf(ErrConverge, "%s is not a %s", p, other)
	}
	return Primitive{Kind: p.Kind, Width: max(p.Width, other.Width)}, nil
}

// Parse reads the notation produced by String: a kind name with an optional
// trailing bit width, like "bool", "int32" or "float".
func Parse(s string) (Primitive, error) {
	kinds := map[string]Kind{
		"any":    KindAny,
		"bool":   KindBool,
		"int":    KindInt,
		"uint":   KindUint,
		"float":  KindFloat,
		"string": KindString,
	}
	name := strings.TrimRight(s, "0123456789")
	kind, ok := kinds[name]
	if !ok {
		return Primitive{}, errors.Errorf("unknown primitive type %q", s)
	}
	if len(name) == len(s) {
		return Primitive{Kind: kind}, nil
	}
	width, err := strconv.Atoi(s[len(name):])
	if err != nil {
		return Primitive{}, errors.Wrapf(err, "bad width in primitive type %q", s)
	}
	if kind != KindInt && kind != KindUint && kind != KindFloat {
		return Primitive{}, errors.Errorf("%s types cannot carry a width (got %q)", kind, s)
	}
	return Primitive{Kind: kind, Width: width}, nil
}
