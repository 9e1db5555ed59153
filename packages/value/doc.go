// Package value classifies arbitrary values under test and walks them.
//
// Every matcher in hitexpect works on plain Go values. This package computes
// a closed Kind for a subject once so comparators can switch on it instead of
// probing the value again at each layer, and exposes the two capabilities the
// comparators rely on:
//   - Iterable: anything that can be walked once, forward only
//   - KeyedLookup: anything that can resolve a key to a value
//
// Slices, arrays, maps, channels and iter.Seq functions are supported without
// implementing either interface. Repr renders values for failure messages.
package value
