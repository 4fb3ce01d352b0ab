// Package dnd negotiates drag-and-drop transfers. It turns a text/uri-list
// payload into validated paths and decides whether the drop copies, moves
// or links them, based on the modifier keys held and whether source and
// target share a volume.
//
// Everything here runs synchronously on the event goroutine. The only I/O
// is the existence probe made while parsing.
package dnd
