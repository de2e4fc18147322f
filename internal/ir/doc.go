// Package ir holds the literal value types shared by every relplan package,
// plus the canonical JSON encoding and content hashes built on them.
//
// ir imports nothing internal. Query arguments, plan encodings and stored
// plans all travel as ir values so that two equal plans always serialize to
// the same bytes.
//
// Constraints:
//   - no float values; float literals are carried as their source text
//   - object keys are ordered by UTF-16 code units (RFC 8785)
//   - strings are NFC normalized when canonically encoded
package ir
