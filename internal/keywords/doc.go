// Package keywords holds the synonym table that maps surface spellings
// ("func", "def", "is greater than", ">=") to canonical concepts.
//
// Lookup is exact after case folding; multi-word surfaces are matched
// longest-first over a word trie so that "for" and "for each", or "to" and
// "to the power of", never collide. Substring matching is never used.
package keywords
