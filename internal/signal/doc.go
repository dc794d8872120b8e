// Package signal provides the one-dimensional cleaning, summarisation and
// padding steps applied to per-track dE/dx sequences before they are handed
// to the particle-ID network. All operations are deterministic except
// padding, whose noise source is injectable for reproducible tests.
package signal
