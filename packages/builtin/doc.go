// Package builtin provides the functions that check files can call inside
// {{ }} placeholders.
//
// Available functions:
//   - uuid(): Random UUID v4
//   - now(), date(layout): Current time as RFC 3339 or in a Go layout
//   - timestamp(), timestampMs(): Current Unix time
//   - random(min, max), randomString(length)
//   - env(name, fallback): Environment variable
//   - base64(value), base64Decode(value), sha256(value)
//   - lower(value), upper(value)
//   - int(value), float(value), nan(), inf(sign): Typed numbers
//
// A placeholder that is a whole argument keeps the function's type, so
// {{int(3)}} is the number 3 and {{nan()}} is NaN.
package builtin
