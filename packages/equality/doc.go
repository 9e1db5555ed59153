// Package equality decides whether two values are the same instance or
// merely equal in value.
//
// Identity and value equality are distinct and never conflated:
//   - Identical is true only for the same instance of a reference value
//     (pointer, map, slice, channel, func) or for an exactly equal value of
//     the same type.
//   - ValueEqual allows cross-numeric comparison (1 == 1.0), numeric strings
//     against numbers ("1" == 1), structural comparison of containers and
//     objects, and falls back to the string form of values that implement
//     fmt.Stringer or error.
//
// NaNEqual and EqualWithDelta are ValueEqual with NaN-equals-NaN or a numeric
// tolerance applied to every numeric leaf.
package equality
