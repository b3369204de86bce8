package node

import (
	"fmt"
	"strings"
)

// Prompt templates use {name} placeholders. Doubled braces escape a literal
// brace: "{{" renders as "{" and "}}" as "}".

// extractPlaceholders returns the distinct placeholder names in template, in
// order of first appearance.
func extractPlaceholders(template string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	err := scanTemplate(template, func(name string) error {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	return names, nil
}

// renderTemplate substitutes each placeholder with the string form of the
// matching argument. Strings are inserted as-is; other values render with
// their default format.
func renderTemplate(template string, args Args) (string, error) {
	var rendered strings.Builder
	rendered.Grow(len(template))

	err := scanTemplate(template, func(name string) error {
		value, ok := args[name]
		if !ok {
			return fmt.Errorf("no value for placeholder %q: %w", name, ErrValidation)
		}
		if text, isString := value.(string); isString {
			rendered.WriteString(text)
		} else {
			fmt.Fprintf(&rendered, "%v", value)
		}
		return nil
	}, rendered.WriteByte)
	if err != nil {
		return "", err
	}

	return rendered.String(), nil
}

// scanTemplate walks template byte by byte, calling onPlaceholder for every
// {name} field and emit (when non-nil) for every literal byte, with brace
// escapes already collapsed. It reports malformed templates: an unterminated
// or empty placeholder, a brace inside a name, or a stray closing brace.
func scanTemplate(template string, onPlaceholder func(name string) error, emit func(b byte) error) error {
	for i := 0; i < len(template); i++ {
		current := template[i]

		switch current {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				if err := emitByte(emit, '{'); err != nil {
					return err
				}
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := template[i+1 : i+1+end]
			if name == "" {
				return fmt.Errorf("empty placeholder name at offset %d", i)
			}
			if strings.ContainsRune(name, '{') {
				return fmt.Errorf("nested brace in placeholder %q", name)
			}
			if err := onPlaceholder(name); err != nil {
				return err
			}
			i += end + 1

		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				if err := emitByte(emit, '}'); err != nil {
					return err
				}
				i++
				continue
			}
			return fmt.Errorf("unmatched closing brace at offset %d", i)

		default:
			if err := emitByte(emit, current); err != nil {
				return err
			}
		}
	}

	return nil
}

func emitByte(emit func(b byte) error, value byte) error {
	if emit == nil {
		return nil
	}
	return emit(value)
}
