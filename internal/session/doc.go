// Package session owns client-side authentication state.
//
// Historically every view decoded and validated the stored token with its
// own slightly different copy of the same logic; this package consolidates
// all of it behind one [Store].
//
// # Token model
//
// Credentials are opaque compact tokens (three dot-separated segments)
// issued by the SyncUp API at login. Two storage slots exist, [SlotUser] and
// [SlotAdmin]; at most one is active and [Store.GetActiveToken] arbitrates,
// evicting any slot it finds invalid. Claims are read without signature
// verification — the client derives display identity only, the server
// enforces authorization on every call.
//
// # Route guard
//
// [Resolve] is the navigation gate: a pure function of ([State], [Route])
// re-evaluated per navigation, never instantiated as a stateful machine.
//
// # Storage
//
// [Storage] abstracts the persistence of slots. [FileStorage] mirrors
// browser local storage semantics for the CLI (shared mutable state across
// processes, re-read on every access); [MemoryStorage] backs tests.
package session
