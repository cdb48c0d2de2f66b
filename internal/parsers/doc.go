// Package parsers provides implementations of the DocumentParser
// interface for each document type. Each parser knows the structural
// conventions of its type: Q/A pairs for FAQs, numbered steps for
// procedures, headed sections for policies, chapters for manuals.
//
// Parsers are registered with the ParserRegistry at startup. A parser
// that finds no structure yields nothing and the registry degrades to
// the paragraph fallback, so every document produces sections.
package parsers
