// Package catalog describes the types a crawl exercises.
//
// A Catalog lists types in a stable order, the public instance members
// declared directly on each type, and knows how to construct an instance
// with no explicit arguments. Registry is the reflection-backed catalog;
// Static holds hand-assembled members (explicit contracts, tests); Filter
// narrows either by configuration; OpenPlugin loads a Registry from a Go
// plugin exporting CrawlTypes.
//
// Members are described as method expressions: Member.Func takes the
// receiver as its first argument, so the same descriptor works for every
// instance of the type.
package catalog
