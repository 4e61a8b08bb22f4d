// Package assembler splices a layout description into a parsed template.
//
// KALAMINE::GEOMETRY_<view> markers become a drawing of the keyboard, one
// line per geometry row; KALAMINE::LAYOUT markers become one XKB key
// statement per key entry, in row-major order, with four levels each.
// Render chains Assemble and templating.Resolve and returns either the
// complete document or an error, never partial text.
package assembler
