// Package vault provides durable, all-or-nothing persistence of an
// access/refresh token pair.
//
// Every implementation stores the pair as a single versioned record so that a
// load can only ever observe a complete pair or nothing. Implementations:
//
//   - [FileVault]: encrypted at rest (argon2id key derivation,
//     XChaCha20-Poly1305 sealing), written atomically via temp file + rename.
//   - [RedisVault]: one record under one fixed key, written with a single SET.
//   - [MemoryVault]: volatile, for tests and examples.
//
// Callers must treat any vault error as "no session": a corrupt or
// inaccessible vault never extends an old session.
package vault
