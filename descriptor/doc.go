// Package descriptor loads keyboard layout descriptors from TOML or YAML
// files and turns them into the two inputs of a generation request: the
// substitution context (metadata) and the layout description (keys).
//
// A descriptor may name a parent with "extends"; the child's metadata wins
// and its keys replace the parent's keys at the same position. Metadata
// gets the generator defaults (author, license, geometry) and the derived
// fields name, name8, fileName, variant and lastChange.
package descriptor
