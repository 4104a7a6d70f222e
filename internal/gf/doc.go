// Package gf owns the graphic-field wire contract.
//
// Ownership boundary:
// - payload encodings (ASCII hex, B64, Z64) and their checksums
// - ^GF/^FO command composition and document wrapping
// - document scanning and field header validation
//
// gf never touches pixels; packing lives in bitpack, orchestration in
// codec.
package gf
