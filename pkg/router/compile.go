package router

import (
	"slices"
	"strings"

	"github.com/vango-dev/maproute/pkg/routepath"
)

// compileRoute validates def and compiles every template.
// All problems are reported, not only the first one.
func compileRoute(def Definition, index int) (*Route, Errors) {
	var errs Errors
	fail := func(e *Error) {
		e.Route = def.ID
		errs = append(errs, e)
	}

	if def.ID == "" {
		fail(newError(CodeMissingID, "route #%d", index))
	}
	if len(def.Paths) == 0 {
		fail(newError(CodeNoPaths, ""))
	}

	for _, e := range checkAliases(def) {
		fail(e)
	}

	r := &Route{
		def:        def,
		index:      index,
		paramKeys:  sortedKeys(def.Params),
		queryKeys:  sortedKeys(def.Query),
		aliasOrder: sortedKeys(def.QueryAliases),
	}

	for i, template := range def.Paths {
		tokens, terrs := compileTemplate(def, template)
		for _, e := range terrs {
			e.Template = template
			fail(e)
		}
		if len(terrs) > 0 {
			continue
		}
		r.variants = append(r.variants, newVariant(r, template, i, tokens))
	}

	byParams := make(map[string]string, len(r.variants))
	for _, v := range r.variants {
		key := strings.Join(slices.Sorted(slices.Values(v.params)), "/")
		if first, ok := byParams[key]; ok {
			e := newError(CodeSameParams, "%q and %q", first, v.Template)
			e.Template = v.Template
			fail(e)
			continue
		}
		byParams[key] = v.Template
	}

	if len(errs) > 0 {
		return nil, errs
	}

	// Building prefers the variant that consumes the most parameters, then
	// the usual specificity order.
	r.build = slices.Clone(r.variants)
	slices.SortStableFunc(r.build, func(a, b *Variant) int {
		if len(a.params) != len(b.params) {
			return len(b.params) - len(a.params)
		}
		return a.Specificity.Compare(b.Specificity)
	})

	return r, nil
}

// compileTemplate turns one template into tokens.
func compileTemplate(def Definition, template string) ([]Token, Errors) {
	if !strings.HasPrefix(template, "/") {
		return nil, Errors{newError(CodeTemplateSyntax, "template must start with \"/\"")}
	}
	if template == "/" {
		return nil, nil
	}
	if strings.HasSuffix(template, "/") {
		return nil, Errors{newError(CodeTemplateSyntax, "template must not end with \"/\"")}
	}

	var (
		tokens []Token
		errs   Errors
		seen   = make(map[string]bool)
	)
	for i, seg := range strings.Split(template[1:], "/") {
		if seg == "" {
			errs = append(errs, newError(CodeTemplateSyntax, "empty segment at position %d", i))
			continue
		}

		name, isParam := strings.CutPrefix(seg, ":")
		if !isParam {
			if err := routepath.ValidatePercentEscapes(seg); err != nil {
				errs = append(errs, &Error{Code: CodeInvalidLiteral, Value: seg, Err: err})
				continue
			}
			literal, err := routepath.UnescapeLiteral(seg)
			if err != nil {
				errs = append(errs, &Error{Code: CodeInvalidLiteral, Value: seg, Err: err})
				continue
			}
			tokens = append(tokens, Token{Literal: literal, Raw: seg})
			continue
		}

		if name == "" {
			errs = append(errs, newError(CodeTemplateSyntax, "empty parameter name at position %d", i))
			continue
		}
		canonical := name
		if target, ok := def.ParamAliases[name]; ok {
			canonical = target
		}
		c := def.Params[canonical]
		if c == nil {
			e := newError(CodeMissingCodec, "placeholder %q", seg)
			e.Key = canonical
			errs = append(errs, e)
			continue
		}
		if seen[canonical] {
			e := newError(CodeDuplicateParam, "parameter %q", canonical)
			e.Key = canonical
			errs = append(errs, e)
			continue
		}
		seen[canonical] = true
		tokens = append(tokens, Token{Raw: seg, Param: canonical, Codec: c})
	}

	return tokens, errs
}

// checkAliases validates both alias maps of a route.
func checkAliases(def Definition) Errors {
	var errs Errors

	declared := func(key string) bool {
		_, inParams := def.Params[key]
		_, inQuery := def.Query[key]
		return inParams || inQuery
	}

	for _, alias := range sortedKeys(def.ParamAliases) {
		target := def.ParamAliases[alias]
		if declared(alias) {
			e := newError(CodeAliasCollision, "param alias %q is also a declared key", alias)
			e.Key = alias
			errs = append(errs, e)
		}
		if _, ok := def.Params[target]; !ok {
			e := newError(CodeAliasTarget, "param alias %q points to %q", alias, target)
			e.Key = alias
			errs = append(errs, e)
		}
	}

	for _, alias := range sortedKeys(def.QueryAliases) {
		target := def.QueryAliases[alias]
		if declared(alias) {
			e := newError(CodeAliasCollision, "query alias %q is also a declared key", alias)
			e.Key = alias
			errs = append(errs, e)
		}
		if _, ok := def.ParamAliases[alias]; ok {
			e := newError(CodeAliasCollision, "alias %q is declared for both params and query", alias)
			e.Key = alias
			errs = append(errs, e)
		}
		if _, ok := def.Query[target]; !ok {
			e := newError(CodeAliasTarget, "query alias %q points to %q", alias, target)
			e.Key = alias
			errs = append(errs, e)
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
