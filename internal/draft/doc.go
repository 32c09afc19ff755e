// ABOUTME: Package draft holds the client-side orchestration for decision drafts
// ABOUTME: None of it computes decisions; it filters, places and replays what the backend returned

// Package draft filters and lays out decision steps, replays a draft's timeline and
// stages step edits behind an impact preview.
package draft
