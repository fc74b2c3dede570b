// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/user). This root package
// holds sentinel errors, validation types, and the automation event model that
// are shared across all entities.
package domain
