// Package textutil provides string normalization helpers shared by the
// extraction, validation, and catalog layers.
package textutil
