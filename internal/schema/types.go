package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeKind tags a TypeRef.
type TypeKind int

const (
	KindNamed TypeKind = iota
	KindList
	KindNonNull
)

// TypeRef is a possibly wrapped type reference, e.g. [User!]!.
type TypeRef struct {
	Kind   TypeKind
	Name   string   // set when Kind == KindNamed
	OfType *TypeRef // set for KindList and KindNonNull
}

// Named returns a reference to the named type.
func Named(name string) TypeRef {
	return TypeRef{Kind: KindNamed, Name: name}
}

// ListOf wraps t in a list.
func ListOf(t TypeRef) TypeRef {
	return TypeRef{Kind: KindList, OfType: &t}
}

// NonNullOf wraps t in a non-null marker.
func NonNullOf(t TypeRef) TypeRef {
	return TypeRef{Kind: KindNonNull, OfType: &t}
}

// IsList reports whether t is a list wrapper.
func (t TypeRef) IsList() bool { return t.Kind == KindList }

// IsNonNull reports whether t is a non-null wrapper.
func (t TypeRef) IsNonNull() bool { return t.Kind == KindNonNull }

// Unwrap returns the wrapped type. Named types return themselves.
func (t TypeRef) Unwrap() TypeRef {
	if t.OfType == nil {
		return t
	}
	return *t.OfType
}

// StripNonNull removes one non-null wrapper if present.
func (t TypeRef) StripNonNull() TypeRef {
	if t.IsNonNull() {
		return t.Unwrap()
	}
	return t
}

// NamedType strips every wrapper and returns the innermost type name.
func (t TypeRef) NamedType() string {
	for t.Kind != KindNamed {
		if t.OfType == nil {
			return ""
		}
		t = *t.OfType
	}
	return t.Name
}

// String renders t in GraphQL notation.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindList:
		return "[" + t.Unwrap().String() + "]"
	case KindNonNull:
		return t.Unwrap().String() + "!"
	default:
		return t.Name
	}
}

// ParseTypeRef parses GraphQL type notation: Name, Name!, [T], [T]!.
func ParseTypeRef(s string) (TypeRef, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return TypeRef{}, fmt.Errorf("empty type reference")
	}
	t, rest, err := parseTypeRef(src)
	if err != nil {
		return TypeRef{}, fmt.Errorf("type %q: %w", s, err)
	}
	if rest != "" {
		return TypeRef{}, fmt.Errorf("type %q: unexpected %q", s, rest)
	}
	return t, nil
}

func parseTypeRef(s string) (TypeRef, string, error) {
	var t TypeRef
	if strings.HasPrefix(s, "[") {
		inner, rest, err := parseTypeRef(strings.TrimSpace(s[1:]))
		if err != nil {
			return TypeRef{}, "", err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "]") {
			return TypeRef{}, "", fmt.Errorf("missing ']'")
		}
		t = ListOf(inner)
		s = strings.TrimSpace(rest[1:])
	} else {
		end := strings.IndexFunc(s, func(r rune) bool {
			return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
		})
		if end == -1 {
			end = len(s)
		}
		if end == 0 {
			return TypeRef{}, "", fmt.Errorf("expected type name at %q", s)
		}
		if unicode.IsDigit(rune(s[0])) {
			return TypeRef{}, "", fmt.Errorf("type name cannot start with a digit")
		}
		t = Named(s[:end])
		s = strings.TrimSpace(s[end:])
	}
	if strings.HasPrefix(s, "!") {
		t = NonNullOf(t)
		s = strings.TrimSpace(s[1:])
	}
	return t, s, nil
}
