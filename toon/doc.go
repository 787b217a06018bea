// Package toon implements TOON, a compact indentation-based notation for
// structured data.
//
// TOON carries the JSON data model (null, bool, number, string, array,
// object) with fewer tokens: objects are written one key per line, and
// arrays declare their length and pick the tightest of three forms.
//
// # Syntax
//
//	name: Alice                    object entry
//	user:                          nested object
//	  id: 1
//	tags[3]: a,b,c                 inline array of primitives
//	items[2]{sku,qty}:             tabular array of uniform objects
//	  A1,2
//	  B2,1
//	mixed[3]:                      list array
//	  - 1
//	  - a: 1
//	  - [2]: x,y
//
// Rows and inline arrays are separated by comma, tab or pipe. The decoder
// detects the delimiter per array (tab, then pipe, then comma), so documents
// encoded with any delimiter decode with the same options. Under a comma
// header, rows may use another delimiter. Empty inline fields are skipped,
// so arrays holding null are always written in list form. A length marker
// such as # may prefix declared lengths: tags[#3].
//
// Strings are quoted only when they would otherwise read back as something
// else: empty strings, strings containing a delimiter, whitespace, a colon,
// a quote or a backslash, strings starting with '[', and strings that look
// like true, false, null or a number.
//
// # Strict mode
//
// With DecodeOptions.Strict (the default), an array whose element count
// differs from its declared length fails with ErrLengthMismatch. Without it,
// the realised elements are kept and missing tabular cells become null.
//
// # Known ambiguities
//
// Some values do not survive a round trip:
//   - empty objects nested in objects or lists decode as null
//   - list elements that are objects of two or more primitives are written
//     as "a: 1 b: 2" and decode as that string
//   - keys are written bare, so keys containing ':', '[', whitespace or a
//     delimiter cannot be read back
//   - a null root encodes to empty text, which decodes as an empty object
//
// A list item holding exactly one unquoted ':' is read as a one-entry
// object, so hand-written items like "- url:http" become objects.
//
// # Streaming
//
// Encoder writes through a buffer and produces the same bytes as Encode.
// Decoder reads its source to EOF before parsing.
package toon
