// Package report renders a crawler.Report.
//
// Pretty is for terminals, Short prints one line per fault, JSON and
// MsgPack emit the same Output document for tooling.
package report
