package state

import "fmt"

// Definition is one named, resolved state field declaration.
type Definition struct {
	Name string
	Type *TypeSpec
}

// Registry maps reference names to previously processed definitions, letting
// schema documents reuse common fields by plain string reference.
type Registry map[string]Definition

// ProcessDefinitions normalizes raw schema definitions into ordered
// Definition records. It accepts the three shapes a decoded JSON schema
// document produces, mixed freely within one list:
//
//   - map form: {"name": "...", "type": "..."}
//   - pair form: ["name", "type"], or a list of such pairs
//   - reference form: "name", resolved through reg
//
// Type strings resolve via ResolveType. Malformed shapes and unknown
// references return errors matching ErrConfiguration.
func ProcessDefinitions(defs []any, reg Registry) ([]Definition, error) {
	processed := make([]Definition, 0, len(defs))

	for _, raw := range defs {
		switch def := raw.(type) {
		case map[string]any:
			definition, err := processMapDefinition(def)
			if err != nil {
				return nil, err
			}
			processed = append(processed, definition)

		case []any:
			definitions, err := processListDefinition(def)
			if err != nil {
				return nil, err
			}
			processed = append(processed, definitions...)

		case string:
			definition, ok := reg[def]
			if !ok {
				return nil, fmt.Errorf("%w: unknown state reference %q", ErrConfiguration, def)
			}
			processed = append(processed, definition)

		default:
			return nil, fmt.Errorf("%w: unsupported definition shape %T", ErrConfiguration, raw)
		}
	}

	return processed, nil
}

func processMapDefinition(def map[string]any) (Definition, error) {
	name, _ := def["name"].(string)
	spelling, _ := def["type"].(string)
	if name == "" || spelling == "" {
		return Definition{}, fmt.Errorf("%w: definition %v needs string name and type", ErrConfiguration, def)
	}
	spec, err := ResolveType(spelling)
	if err != nil {
		return Definition{}, err
	}
	return Definition{Name: name, Type: spec}, nil
}

func processListDefinition(def []any) ([]Definition, error) {
	// A two-element list starting with a string is a single [name, type]
	// pair; anything else must be a list of such pairs.
	if len(def) == 2 {
		if name, ok := def[0].(string); ok {
			spelling, ok := def[1].(string)
			if !ok {
				return nil, fmt.Errorf("%w: definition pair [%q, %v] needs a string type", ErrConfiguration, name, def[1])
			}
			spec, err := ResolveType(spelling)
			if err != nil {
				return nil, err
			}
			return []Definition{{Name: name, Type: spec}}, nil
		}
	}

	definitions := make([]Definition, 0, len(def))
	for _, item := range def {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: invalid definition item %v", ErrConfiguration, item)
		}
		name, nameOK := pair[0].(string)
		spelling, typeOK := pair[1].(string)
		if !nameOK || !typeOK {
			return nil, fmt.Errorf("%w: invalid definition item %v", ErrConfiguration, item)
		}
		spec, err := ResolveType(spelling)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, Definition{Name: name, Type: spec})
	}
	return definitions, nil
}
