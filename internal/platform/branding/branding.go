// Package branding centralizes the product name so every surface spells
// it the same way.
package branding

// AppName is the user-facing product name.
const AppName = "ResolveBridge"
