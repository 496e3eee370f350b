// Package collection is the paged data provider for a remote record collection.
//
// A collection is read one page at a time through the PageFetcher capability.
// Client implements it over HTTP against an endpoint that answers
//
//	GET {base}/artworks?page=N&limit=M
//
// with a JSON body carrying a "data" array and a "pagination" object. StaticSource
// serves pages from memory and is used for demo mode and tests.
//
// Page indexes are 1-based. A page with zero records means the collection is exhausted.
package collection
