// Package templating parses keyboard layout templates into an immutable
// sequence of literal, placeholder and marker segments, and resolves
// ${name} placeholders against a Context.
//
// Placeholders are written ${name} or ${name=default}. Markers are
// KALAMINE::GEOMETRY_<view> and KALAMINE::LAYOUT; each owns its whole line
// and is replaced through Document.Expand. Resolve is all-or-nothing: a
// missing name yields an *UnresolvedPlaceholderError and no text.
//
// The Engine type expands plain placeholder templates from files, with
// variables stamped from workspace status files, and backs the
// template_engine binary.
package templating
