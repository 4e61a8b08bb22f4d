// Package layout models a keyboard layout description: key entries with up
// to four symbol levels (base, shift, alt, alt-shift) placed on the named
// positions of a physical geometry (ISO, ANSI or ERGO).
//
// A Description is built per generation request. Validate rejects duplicate
// and unknown positions; Sorted returns the entries in row-major order, which
// is the order every renderer emits keys in.
package layout
