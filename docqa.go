// Package docqa answers natural language questions about a documentation
// website. It scrapes the site into sections, splits the sections into
// overlapping chunks, embeds the chunks for nearest-neighbor search, and
// answers queries from the best-matching sections with a language model.
//
// This package contains domain types, interfaces and the pure retrieval
// algorithms following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, gemini/, rod/).
package docqa
