// Package nara implements the catalog.archives.gov API client: record
// lookup via the search proxy and streaming object downloads.
package nara
