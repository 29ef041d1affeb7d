package mdx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	errMissingAttr = errors.New("missing attribute")
	errBadAttr     = errors.New("malformed attribute")
	errUnresolved  = errors.New("unresolved reference")
)

// calloutTypes are the recognised callout styles; anything else is "info".
var calloutTypes = map[string]bool{"info": true, "warning": true, "success": true, "error": true}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// buildArgs turns a marker into widget arguments. A nil map with an error
// leaves the marker as prose; a non-nil map with an error emits the widget
// with a degraded payload.
func buildArgs(m Marker, exports map[string][]LinkSection) (map[string]any, error) {
	switch m.Kind {
	case KindCallout:
		typ := stringAttr(m, "type")
		if !calloutTypes[typ] {
			typ = "info"
		}
		args := map[string]any{"type": typ, "content": strings.TrimSpace(m.Body)}
		if emoji := stringAttr(m, "emoji"); emoji != "" {
			args["emoji"] = emoji
		}
		return args, nil

	case KindFAQ:
		faqs, err := literalAttr(m, "faqs", decodeFAQs)
		if faqs == nil {
			faqs = []FAQ{}
		}
		return map[string]any{"faqs": faqs}, err

	case KindSteps:
		steps, err := literalAttr(m, "steps", decodeSteps)
		if steps == nil {
			steps = []Step{}
		}
		return map[string]any{"steps": steps}, err

	case KindPremiumCalculator:
		return intArgs(m, "defaultCoverage", "defaultRate", "defaultDuration")

	case KindRiskCalculator:
		return intArgs(m, "defaultDeposit", "maxBudget")

	case KindCodeSandbox:
		args, err := requiredStrings(m, "url")
		if err != nil {
			return nil, err
		}
		optionalString(m, args, "title")
		if err := optionalInt(m, args, "height"); err != nil {
			return nil, err
		}
		return args, nil

	case KindIframe:
		args, err := requiredStrings(m, "src", "title")
		if err != nil {
			return nil, err
		}
		optionalString(m, args, "className")
		if err := optionalInt(m, args, "initialHeight"); err != nil {
			return nil, err
		}
		return args, nil

	case KindThemedImage:
		args, err := requiredStrings(m, "lightSrc", "darkSrc", "alt")
		if err != nil {
			return nil, err
		}
		optionalString(m, args, "className")
		return args, nil

	case KindExternalLinks:
		return externalLinksArgs(m, exports)

	case KindRawHTML:
		return map[string]any{"html": strings.ReplaceAll(m.Raw, "className=", "class=")}, nil

	case KindContractAddresses, KindPoolParameters:
		return map[string]any{}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", m.Kind)
}

func externalLinksArgs(m Marker, exports map[string][]LinkSection) (map[string]any, error) {
	a, ok := m.Attr("sections")
	if !ok || !a.Expr {
		return nil, fmt.Errorf("sections: %w", errMissingAttr)
	}
	if identRe.MatchString(a.Value) {
		sections, ok := exports[a.Value]
		if !ok {
			return nil, fmt.Errorf("sections %s: %w", a.Value, errUnresolved)
		}
		return map[string]any{"name": a.Value, "sections": sections}, nil
	}
	sections, err := literalAttr(m, "sections", decodeLinkSections)
	if sections == nil {
		sections = []LinkSection{}
	}
	return map[string]any{"sections": sections}, err
}

// literalAttr parses the {...} expression of attribute name with decode.
func literalAttr[T any](m Marker, name string, decode func(any) ([]T, error)) ([]T, error) {
	a, ok := m.Attr(name)
	if !ok || !a.Expr {
		return nil, fmt.Errorf("%s: %w", name, errMissingAttr)
	}
	v, err := ParseLiteral(a.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func stringAttr(m Marker, name string) string {
	a, ok := m.Attr(name)
	if !ok || a.Expr {
		return ""
	}
	return a.Value
}

func requiredStrings(m Marker, names ...string) (map[string]any, error) {
	args := make(map[string]any, len(names)+2)
	for _, n := range names {
		v := stringAttr(m, n)
		if v == "" {
			return nil, fmt.Errorf("%s: %w", n, errMissingAttr)
		}
		args[n] = v
	}
	return args, nil
}

func optionalString(m Marker, args map[string]any, name string) {
	if v := stringAttr(m, name); v != "" {
		args[name] = v
	}
}

func optionalInt(m Marker, args map[string]any, name string) error {
	a, ok := m.Attr(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(a.Value))
	if err != nil || n < 0 {
		return fmt.Errorf("%s=%q: %w", name, a.Value, errBadAttr)
	}
	args[name] = n
	return nil
}

func intArgs(m Marker, names ...string) (map[string]any, error) {
	args := map[string]any{}
	for _, n := range names {
		if err := optionalInt(m, args, n); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func decodeFAQs(v any) ([]FAQ, error) {
	items, err := objects(v)
	if err != nil {
		return nil, err
	}
	out := make([]FAQ, 0, len(items))
	for _, it := range items {
		out = append(out, FAQ{Question: str(it, "question"), Answer: str(it, "answer")})
	}
	return out, nil
}

func decodeSteps(v any) ([]Step, error) {
	items, err := objects(v)
	if err != nil {
		return nil, err
	}
	out := make([]Step, 0, len(items))
	for _, it := range items {
		out = append(out, Step{
			Title:       str(it, "title"),
			Description: str(it, "description"),
			Tip:         str(it, "tip"),
		})
	}
	return out, nil
}

func decodeLinkSections(v any) ([]LinkSection, error) {
	items, err := objects(v)
	if err != nil {
		return nil, err
	}
	out := make([]LinkSection, 0, len(items))
	for _, it := range items {
		sec := LinkSection{Title: str(it, "title"), Links: []Link{}}
		if raw, ok := it["links"]; ok {
			links, err := objects(raw)
			if err != nil {
				return nil, fmt.Errorf("section %q links: %w", sec.Title, err)
			}
			for _, l := range links {
				sec.Links = append(sec.Links, Link{
					Title:       str(l, "title"),
					URL:         str(l, "url"),
					Description: str(l, "description"),
					Icon:        str(l, "icon"),
				})
			}
		}
		out = append(out, sec)
	}
	return out, nil
}

// objects asserts v is an array of objects.
func objects(v any) ([]map[string]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", ErrLiteral, v)
	}
	out := make([]map[string]any, 0, len(arr))
	for i, e := range arr {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not an object", ErrLiteral, i, e)
		}
		out = append(out, obj)
	}
	return out, nil
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
