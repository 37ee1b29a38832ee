// Package snippets loads VSCode style snippet files. The built-in set is
// embedded; user files are merged after it.
package snippets
