// Package uniuri generates random strings good for use in URIs to identify
// unique objects. It is used here for password-reset tokens.
//
// It uses crypto/rand as its source of randomness and rejects byte values
// outside the usable range instead of taking a modulo, so the output is
// uniformly distributed over the character set.
package uniuri
