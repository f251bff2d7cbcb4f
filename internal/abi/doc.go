// Package abi holds the low-level numeric and layout primitives shared by
// the descriptor, load/store, and lift/lower implementations: alignment
// rounding, discriminant sizing, NaN canonicalization, char validation,
// overflow-checked arithmetic, and the flat value-type join/coercion rules
// used when flattening variants, options, and results.
package abi
