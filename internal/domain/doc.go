// Package domain defines the core types and the interfaces between components.
//
// Concept-oriented files (status.go, config.go, store.go) hold shared types and consumer-side
// interfaces. No implementation code beyond small value helpers.
package domain
