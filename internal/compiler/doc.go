// Package compiler turns field descriptors into the live-preview script: it filters
// eligible fields, compiles one change procedure per field and joins them in input order.
package compiler
