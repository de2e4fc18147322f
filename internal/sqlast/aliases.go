package sqlast

// AliasSuffix is appended to a taken alias. It is not valid in GraphQL
// names, so a suffixed alias never collides with a field name.
const AliasSuffix = "$"

// AliasAllocator hands out table aliases unique within one Build call.
// There is no release; the allocator is dropped with the call.
type AliasAllocator struct {
	used map[string]struct{}
}

// NewAliasAllocator returns an empty allocator.
func NewAliasAllocator() *AliasAllocator {
	return &AliasAllocator{used: make(map[string]struct{})}
}

// Allocate returns candidate if unused, otherwise candidate with
// AliasSuffix appended as many times as needed. The result is recorded.
func (a *AliasAllocator) Allocate(candidate string) string {
	name := candidate
	for a.Taken(name) {
		name += AliasSuffix
	}
	a.used[name] = struct{}{}
	return name
}

// Taken reports whether name has been allocated.
func (a *AliasAllocator) Taken(name string) bool {
	_, ok := a.used[name]
	return ok
}

// Len returns the number of allocated aliases.
func (a *AliasAllocator) Len() int {
	return len(a.used)
}
