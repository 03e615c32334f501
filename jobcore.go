// Package jobcore turns raw job-posting documents into structured records
// with per-field confidence, segments posting text into typed sections,
// canonicalizes company names, and decides whether a record duplicates one
// already known.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, yaml/) or after
// the engine they provide (e.g., extract/, segment/, dedup/).
package jobcore
