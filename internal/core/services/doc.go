// Package services implements the driving port interfaces with the
// core business logic: knowledge loading, query processing, ranking,
// answer synthesis, conversation tracking, learning, and the
// assistant orchestration that ties them together.
//
// Services depend only on domain types and the driven ports. All
// infrastructure (index, stores, config) is injected at construction.
package services
