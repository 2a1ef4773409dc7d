// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is password hashing: store only the hash, then verify user
// input by comparing the plaintext against the stored hash. The HMAC variant
// is used to digest session tokens before they touch a shared store, so the
// store never holds a token that could be presented back to the API.
package hash
