package catalog

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Text is a catalog string that is either the same in every language or keyed by
// language code.
type Text struct {
	plain  string
	byLang map[string]string
}

// Plain returns a Text that reads the same in every language.
func Plain(s string) Text { return Text{plain: s} }

// Localized returns a Text keyed by language code.
func Localized(values map[string]string) Text {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Text{byLang: cp}
}

// In returns the text for lang, falling back to DefaultLang, then the plain value,
// then the first language in sorted order.
func (t Text) In(lang string) string {
	if v, ok := t.byLang[lang]; ok {
		return v
	}
	if v, ok := t.byLang[DefaultLang]; ok {
		return v
	}
	if t.plain != "" || len(t.byLang) == 0 {
		return t.plain
	}
	keys := make([]string, 0, len(t.byLang))
	for k := range t.byLang {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return t.byLang[keys[0]]
}

// IsZero reports whether the text holds no value at all.
func (t Text) IsZero() bool { return t.plain == "" && len(t.byLang) == 0 }

// UnmarshalYAML accepts either a scalar or a mapping of language code to string.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = Plain(node.Value)
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		*t = Localized(m)
		return nil
	default:
		return fmt.Errorf("catalog: text must be a string or a language map (line %d)", node.Line)
	}
}
