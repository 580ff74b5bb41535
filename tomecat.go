// Package tomecat provides a local content catalog. It acquires documents
// and media from remote sources into durable local storage and offers
// streaming, concurrency-bounded full-text search over everything stored.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, pdf/, trafilatura/).
package tomecat
