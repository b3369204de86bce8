package state

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Kind enumerates the shapes a type spelling can resolve to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindDict
	KindUnion
)

// String returns the spelling of primitive kinds and the constructor name of
// composite ones.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "List"
	case KindDict:
		return "Dict"
	case KindUnion:
		return "Union"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TypeSpec is the structural descriptor a type spelling resolves to.
// Exactly the fields implied by Kind are set: Elem for lists, Key/Value for
// dicts, Variants for unions.
type TypeSpec struct {
	Kind     Kind
	Elem     *TypeSpec
	Key      *TypeSpec
	Value    *TypeSpec
	Variants []*TypeSpec
}

// String returns the canonical spelling, round-tripping through ResolveType.
func (spec *TypeSpec) String() string {
	switch spec.Kind {
	case KindList:
		return fmt.Sprintf("List[%s]", spec.Elem)
	case KindDict:
		return fmt.Sprintf("Dict[%s, %s]", spec.Key, spec.Value)
	case KindUnion:
		spellings := make([]string, len(spec.Variants))
		for i, variant := range spec.Variants {
			spellings[i] = variant.String()
		}
		return fmt.Sprintf("Union[%s]", strings.Join(spellings, ", "))
	default:
		return spec.Kind.String()
	}
}

// typeCache memoizes ResolveType results process-wide. Resolution is pure,
// so cached descriptors are shared freely; the mutex keeps parallel tests
// safe.
var typeCache = struct {
	sync.Mutex
	specs map[string]*TypeSpec
}{specs: make(map[string]*TypeSpec)}

// ClearTypeCache empties the resolution cache. Call it between independent
// registry contexts, for example test runs that redefine spellings.
func ClearTypeCache() {
	typeCache.Lock()
	defer typeCache.Unlock()
	typeCache.specs = make(map[string]*TypeSpec)
}

// ResolveType resolves a type spelling to its structural descriptor.
// Supported spellings are the primitives str, int, float, and bool, plus
// List[elem], Dict[key, value], and Union[a, b, ...] with arbitrary nesting.
// Composite parameters split at top-level commas only, so nested brackets
// are handled correctly. Results are cached by spelling; see ClearTypeCache.
//
// Unknown names, unbalanced brackets, and wrong arity return errors matching
// ErrConfiguration.
func ResolveType(spelling string) (*TypeSpec, error) {
	trimmed := strings.TrimSpace(spelling)

	typeCache.Lock()
	if spec, ok := typeCache.specs[trimmed]; ok {
		typeCache.Unlock()
		return spec, nil
	}
	typeCache.Unlock()

	spec, err := resolve(trimmed)
	if err != nil {
		return nil, err
	}

	typeCache.Lock()
	typeCache.specs[trimmed] = spec
	typeCache.Unlock()
	return spec, nil
}

func resolve(spelling string) (*TypeSpec, error) {
	switch spelling {
	case "str":
		return &TypeSpec{Kind: KindString}, nil
	case "int":
		return &TypeSpec{Kind: KindInt}, nil
	case "float":
		return &TypeSpec{Kind: KindFloat}, nil
	case "bool":
		return &TypeSpec{Kind: KindBool}, nil
	}

	if err := checkBrackets(spelling); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(spelling, "List[") && strings.HasSuffix(spelling, "]"):
		inner := spelling[len("List[") : len(spelling)-1]
		if strings.TrimSpace(inner) == "" {
			return nil, fmt.Errorf("%w: List needs an element type in %q", ErrConfiguration, spelling)
		}
		elem, err := ResolveType(inner)
		if err != nil {
			return nil, err
		}
		return &TypeSpec{Kind: KindList, Elem: elem}, nil

	case strings.HasPrefix(spelling, "Dict[") && strings.HasSuffix(spelling, "]"):
		inner := spelling[len("Dict[") : len(spelling)-1]
		parts, err := splitTopLevel(inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %v in %q", ErrConfiguration, err, spelling)
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: Dict needs exactly two type parameters, got %d in %q",
				ErrConfiguration, len(parts), spelling)
		}
		key, err := ResolveType(parts[0])
		if err != nil {
			return nil, err
		}
		value, err := ResolveType(parts[1])
		if err != nil {
			return nil, err
		}
		return &TypeSpec{Kind: KindDict, Key: key, Value: value}, nil

	case strings.HasPrefix(spelling, "Union[") && strings.HasSuffix(spelling, "]"):
		inner := spelling[len("Union[") : len(spelling)-1]
		if strings.TrimSpace(inner) == "" {
			return nil, fmt.Errorf("%w: Union needs at least one variant in %q", ErrConfiguration, spelling)
		}
		parts, err := splitTopLevel(inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %v in %q", ErrConfiguration, err, spelling)
		}
		variants := make([]*TypeSpec, 0, len(parts))
		for _, part := range parts {
			variant, err := ResolveType(part)
			if err != nil {
				return nil, err
			}
			variants = append(variants, variant)
		}
		return &TypeSpec{Kind: KindUnion, Variants: variants}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrConfiguration, spelling)
}

// checkBrackets verifies square brackets pair up.
func checkBrackets(spelling string) error {
	depth := 0
	for _, r := range spelling {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced brackets in type %q", ErrConfiguration, spelling)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced brackets in type %q", ErrConfiguration, spelling)
	}
	return nil
}

// splitTopLevel splits a parameter list at commas outside nested brackets.
func splitTopLevel(inner string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, inner[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, inner[start:])

	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			return nil, fmt.Errorf("empty type parameter at position %d", i)
		}
		parts[i] = trimmed
	}
	return parts, nil
}

// Validate checks a state value structurally against the descriptor.
// Numeric kinds accept what encoding/json produces: float64 satisfies int
// when it carries an integral value, and int satisfies float.
func (spec *TypeSpec) Validate(value any) error {
	switch spec.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected str, got %T", value)
		}
		return nil

	case KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		return nil

	case KindInt:
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		case float64:
			if v == float64(int64(v)) {
				return nil
			}
			return fmt.Errorf("expected int, got fractional number %v", v)
		default:
			return fmt.Errorf("expected int, got %T", value)
		}

	case KindFloat:
		switch value.(type) {
		case float32, float64, int, int8, int16, int32, int64:
			return nil
		default:
			return fmt.Errorf("expected float, got %T", value)
		}

	case KindList:
		reflected := reflect.ValueOf(value)
		if !reflected.IsValid() || (reflected.Kind() != reflect.Slice && reflected.Kind() != reflect.Array) {
			return fmt.Errorf("expected %s, got %T", spec, value)
		}
		for i := 0; i < reflected.Len(); i++ {
			if err := spec.Elem.Validate(reflected.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	case KindDict:
		reflected := reflect.ValueOf(value)
		if !reflected.IsValid() || reflected.Kind() != reflect.Map {
			return fmt.Errorf("expected %s, got %T", spec, value)
		}
		iter := reflected.MapRange()
		for iter.Next() {
			if err := spec.Key.Validate(iter.Key().Interface()); err != nil {
				return fmt.Errorf("key %v: %w", iter.Key(), err)
			}
			if err := spec.Value.Validate(iter.Value().Interface()); err != nil {
				return fmt.Errorf("value for key %v: %w", iter.Key(), err)
			}
		}
		return nil

	case KindUnion:
		for _, variant := range spec.Variants {
			if variant.Validate(value) == nil {
				return nil
			}
		}
		return fmt.Errorf("value %v (%T) matches no variant of %s", value, value, spec)

	default:
		return fmt.Errorf("unsupported kind %v", spec.Kind)
	}
}
