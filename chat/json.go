package chat

import (
	"encoding/json"
	"fmt"
)

// Encode renders a component tree to its JSON form: only present style
// attributes are written, color serializes as a named string or
// "#RRGGBB", children go under "extra", and translation replacements
// go under "with".
func Encode(c Component) ([]byte, error) {
	return json.Marshal(toJSONObject(c))
}

func toJSONObject(c Component) map[string]any {
	obj := map[string]any{}
	style := c.Style()

	if style.Bold.IsPresent() {
		obj["bold"] = style.Bold.Value()
	}
	if style.Italic.IsPresent() {
		obj["italic"] = style.Italic.Value()
	}
	if style.Underlined.IsPresent() {
		obj["underlined"] = style.Underlined.Value()
	}
	if style.Strikethrough.IsPresent() {
		obj["strikethrough"] = style.Strikethrough.Value()
	}
	if style.Obfuscated.IsPresent() {
		obj["obfuscated"] = style.Obfuscated.Value()
	}
	if style.Font != "" {
		obj["font"] = style.Font
	}
	if style.Color.IsPresent() {
		obj["color"] = style.Color.String()
	}

	switch t := c.(type) {
	case *Text:
		obj["text"] = t.Value
	case *Translation:
		obj["translate"] = t.Key
		if len(t.With) > 0 {
			with := make([]map[string]any, len(t.With))
			for i, r := range t.With {
				with[i] = toJSONObject(r)
			}
			obj["with"] = with
		}
	}

	if children := c.Children(); len(children) > 0 {
		extra := make([]map[string]any, len(children))
		for i, ch := range children {
			extra[i] = toJSONObject(ch)
		}
		obj["extra"] = extra
	}

	return obj
}

// Decode parses a component tree from its JSON form. Array and
// bare-string forms are out of scope and reported as errors; the
// input must be a JSON object.
func Decode(data []byte) (Component, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("chat: decoding component: %w", err)
	}
	return decodeObject(raw)
}

func decodeObject(raw map[string]any) (Component, error) {
	var node Component

	if textVal, ok := raw["text"]; ok {
		text, ok := textVal.(string)
		if !ok {
			return nil, fmt.Errorf("chat: \"text\" must be a string")
		}
		node = NewText(text)
	} else if translateVal, ok := raw["translate"]; ok {
		key, ok := translateVal.(string)
		if !ok {
			return nil, fmt.Errorf("chat: \"translate\" must be a string")
		}
		translation := NewTranslation(key)
		if withVal, ok := raw["with"]; ok {
			withList, ok := withVal.([]any)
			if !ok {
				return nil, fmt.Errorf("chat: \"with\" must be an array")
			}
			for i, item := range withList {
				obj, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("chat: \"with\"[%d] must be an object", i)
				}
				replacement, err := decodeObject(obj)
				if err != nil {
					return nil, err
				}
				translation.AppendReplacement(replacement)
			}
		}
		node = translation
	} else {
		return nil, fmt.Errorf("chat: component object has neither \"text\" nor \"translate\"")
	}

	style := node.Style()
	if err := decodeBoolFlag(raw, "bold", &style.Bold); err != nil {
		return nil, err
	}
	if err := decodeBoolFlag(raw, "italic", &style.Italic); err != nil {
		return nil, err
	}
	if err := decodeBoolFlag(raw, "underlined", &style.Underlined); err != nil {
		return nil, err
	}
	if err := decodeBoolFlag(raw, "strikethrough", &style.Strikethrough); err != nil {
		return nil, err
	}
	if err := decodeBoolFlag(raw, "obfuscated", &style.Obfuscated); err != nil {
		return nil, err
	}
	if fontVal, ok := raw["font"]; ok {
		font, ok := fontVal.(string)
		if !ok {
			return nil, fmt.Errorf("chat: \"font\" must be a string")
		}
		style.Font = font
	}
	if colorVal, ok := raw["color"]; ok {
		colorStr, ok := colorVal.(string)
		if !ok {
			return nil, fmt.Errorf("chat: \"color\" must be a string")
		}
		color, err := parseColor(colorStr)
		if err != nil {
			return nil, err
		}
		style.Color = color
	}

	if extraVal, ok := raw["extra"]; ok {
		extraList, ok := extraVal.([]any)
		if !ok {
			return nil, fmt.Errorf("chat: \"extra\" must be an array")
		}
		for i, item := range extraList {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("chat: \"extra\"[%d] must be an object", i)
			}
			child, err := decodeObject(obj)
			if err != nil {
				return nil, err
			}
			node.AppendChild(child)
		}
	}

	return node, nil
}

func decodeBoolFlag(raw map[string]any, key string, into *Tristate) error {
	val, ok := raw[key]
	if !ok {
		return nil
	}
	b, ok := val.(bool)
	if !ok {
		return fmt.Errorf("chat: %q must be a boolean", key)
	}
	if b {
		*into = On()
	} else {
		*into = Off()
	}
	return nil
}

func parseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("chat: malformed RGB color %q: %w", s, err)
		}
		return NewRGBColor(RGB{R: r, G: g, B: b}), nil
	}
	named, ok := NamedColorFromString(s)
	if !ok {
		return Color{}, fmt.Errorf("chat: unknown named color %q", s)
	}
	return NewNamedColor(named), nil
}
