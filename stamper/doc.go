// Package stamper reads workspace status files and substitutes
// single-brace {VAR} references in layout metadata.
//
// LoadStamps parses status files into a variable map that Apply uses on a
// single value. StampContext does both for a whole metadata map. Unknown
// references are kept verbatim so that literal braces in descriptions
// survive.
package stamper
