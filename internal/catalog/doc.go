// Package catalog defines the product model shared by the catalog server,
// the gRPC contract and the product editor.
//
// A Product carries a fixed set of editable fields (see Field) plus three
// ordered sub-collections (features, applications and pack sizes) that are
// persisted separately with a full replace.
package catalog
