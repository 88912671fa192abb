package ast

import "strconv"

// Subst maps names to the terms that replace them.
type Subst map[string]Term

// without returns s minus the given names. It returns s itself when none
// of the names are present.
func (s Subst) without(names ...string) Subst {
	hit := false
	for _, n := range names {
		if _, ok := s[n]; ok {
			hit = true
			break
		}
	}
	if !hit {
		return s
	}
	out := make(Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// Substitute replaces free references in t according to s. Pi binders and
// pattern variables shadow the substitution in their scope, and are renamed
// when a replacement term mentions them.
func Substitute(t Term, s Subst) Term {
	if t == nil || len(s) == 0 {
		return t
	}
	switch typ := t.(type) {
	case Ref:
		if r, ok := s[typ.Name]; ok {
			return r
		}
		return typ
	case App:
		return App{Fn: Substitute(typ.Fn, s), Arg: Substitute(typ.Arg, s)}
	case NamedApp:
		return NamedApp{Fn: Substitute(typ.Fn, s), Name: typ.Name, Arg: Substitute(typ.Arg, s)}
	case AutoApp:
		return AutoApp{Fn: Substitute(typ.Fn, s), Arg: Substitute(typ.Arg, s)}
	case Pi:
		b := typ.Binder
		b.Type = Substitute(b.Type, s)
		body := typ.Codomain
		if b.Name == "" {
			return Pi{Binder: b, Codomain: Substitute(body, s)}
		}
		inner := s.without(b.Name)
		if inner.captures(b.Name, body) {
			renamed := inner.fresh(b.Name, body, nil)
			body = Substitute(body, Subst{b.Name: Ref{Name: renamed}})
			b.Name = renamed
		}
		return Pi{Binder: b, Codomain: Substitute(body, inner)}
	case Case:
		alts := make([]Alt, len(typ.Alts))
		for i, a := range typ.Alts {
			vars := PatternVars(a.Pattern)
			inner := s.without(vars...)
			pattern, body := a.Pattern, a.Body
			var rename Subst
			taken := append([]string(nil), vars...)
			for _, v := range vars {
				if !inner.captures(v, body) {
					continue
				}
				if rename == nil {
					rename = make(Subst)
				}
				renamed := inner.fresh(v, body, taken)
				taken = append(taken, renamed)
				rename[v] = Ref{Name: renamed}
			}
			if rename != nil {
				pattern = renamePattern(pattern, rename, true)
				body = Substitute(body, rename)
			}
			alts[i] = Alt{Pattern: pattern, Body: Substitute(body, inner)}
		}
		return Case{Scrutinee: Substitute(typ.Scrutinee, s), Alts: alts}
	default:
		return t
	}
}

// captures reports whether binding name over body would capture a free
// reference of a replacement that s makes inside body.
func (s Subst) captures(name string, body Term) bool {
	for k, v := range s {
		if Occurs(name, v) && Occurs(k, body) {
			return true
		}
	}
	return false
}

// fresh returns base1, base2, ... whichever is free in body, in the
// replacements of s, among the keys of s and in taken.
func (s Subst) fresh(base string, body Term, taken []string) string {
	used := make(map[string]bool)
	for k, v := range s {
		used[k] = true
		for _, n := range FreeRefs(v) {
			used[n] = true
		}
	}
	for _, n := range FreeRefs(body) {
		used[n] = true
	}
	for _, n := range taken {
		used[n] = true
	}
	for i := 1; ; i++ {
		if name := base + strconv.Itoa(i); !used[name] {
			return name
		}
	}
}

// renamePattern renames the variables of a constructor pattern, leaving
// the constructor at its head alone.
func renamePattern(p Term, r Subst, head bool) Term {
	switch typ := p.(type) {
	case Ref:
		if to, ok := r[typ.Name]; ok && !head {
			return to
		}
		return typ
	case App:
		return App{Fn: renamePattern(typ.Fn, r, head), Arg: renamePattern(typ.Arg, r, false)}
	case NamedApp:
		return NamedApp{Fn: renamePattern(typ.Fn, r, head), Name: typ.Name, Arg: renamePattern(typ.Arg, r, false)}
	case AutoApp:
		return AutoApp{Fn: renamePattern(typ.Fn, r, head), Arg: renamePattern(typ.Arg, r, false)}
	default:
		return p
	}
}

// PatternVars returns the variables bound by a constructor pattern: every
// reference in argument position. The head of the pattern is the
// constructor and binds nothing.
func PatternVars(p Term) []string {
	var vars []string
	var walk func(t Term, head bool)
	walk = func(t Term, head bool) {
		switch typ := t.(type) {
		case Ref:
			if !head {
				vars = append(vars, typ.Name)
			}
		case App:
			walk(typ.Fn, head)
			walk(typ.Arg, false)
		case NamedApp:
			walk(typ.Fn, head)
			walk(typ.Arg, false)
		case AutoApp:
			walk(typ.Fn, head)
			walk(typ.Arg, false)
		}
	}
	walk(p, true)
	return vars
}

// FreeRefs returns the names referenced freely in t, in first-occurrence
// order without duplicates.
func FreeRefs(t Term) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(t Term, bound map[string]bool)
	walk = func(t Term, bound map[string]bool) {
		switch typ := t.(type) {
		case Ref:
			if !bound[typ.Name] && !seen[typ.Name] {
				seen[typ.Name] = true
				out = append(out, typ.Name)
			}
		case App:
			walk(typ.Fn, bound)
			walk(typ.Arg, bound)
		case NamedApp:
			walk(typ.Fn, bound)
			walk(typ.Arg, bound)
		case AutoApp:
			walk(typ.Fn, bound)
			walk(typ.Arg, bound)
		case Pi:
			walk(typ.Binder.Type, bound)
			walk(typ.Codomain, extend(bound, typ.Binder.Name))
		case Case:
			walk(typ.Scrutinee, bound)
			for _, a := range typ.Alts {
				walk(a.Body, extend(bound, PatternVars(a.Pattern)...))
			}
		}
	}
	walk(t, map[string]bool{})
	return out
}

// Occurs reports whether name is referenced freely in t.
func Occurs(name string, t Term) bool {
	for _, n := range FreeRefs(t) {
		if n == name {
			return true
		}
	}
	return false
}

func extend(bound map[string]bool, names ...string) map[string]bool {
	out := make(map[string]bool, len(bound)+len(names))
	for k, v := range bound {
		out[k] = v
	}
	for _, n := range names {
		if n != "" {
			out[n] = true
		}
	}
	return out
}

// Equal reports structural equality of two terms.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Ref:
		y, ok := b.(Ref)
		return ok && x.Name == y.Name
	case App:
		y, ok := b.(App)
		return ok && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case NamedApp:
		y, ok := b.(NamedApp)
		return ok && x.Name == y.Name && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case AutoApp:
		y, ok := b.(AutoApp)
		return ok && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case Lit:
		y, ok := b.(Lit)
		return ok && x == y
	case Hole:
		_, ok := b.(Hole)
		return ok
	case Pi:
		y, ok := b.(Pi)
		return ok && x.Binder.Name == y.Binder.Name &&
			x.Binder.Count == y.Binder.Count &&
			x.Binder.Piness == y.Binder.Piness &&
			Equal(x.Binder.Type, y.Binder.Type) &&
			Equal(x.Codomain, y.Codomain)
	case Case:
		y, ok := b.(Case)
		if !ok || len(x.Alts) != len(y.Alts) || !Equal(x.Scrutinee, y.Scrutinee) {
			return false
		}
		for i := range x.Alts {
			if !Equal(x.Alts[i].Pattern, y.Alts[i].Pattern) || !Equal(x.Alts[i].Body, y.Alts[i].Body) {
				return false
			}
		}
		return true
	}
	return false
}
