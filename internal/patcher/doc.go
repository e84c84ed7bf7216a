// Package patcher rewrites the duration fields of track entries embedded in a
// generated playlist document.
//
// A track entry is recognised by its source URL and duration label:
//
//	src: "<prefix><relative path>?raw=true", ... duration: "<value>"
//
// Only the duration value of an entry whose relative path appears in the
// Duration Mapping is replaced. Paths are compared case-insensitively. All
// other bytes of the document, including entries that are not recognised or
// have no mapping, are returned unchanged.
//
// # Usage
//
//	m, err := patcher.ParseMapping(data)
//	if err != nil {
//	    // errors.Is(err, patcher.ErrMalformedInput)
//	}
//	p, err := patcher.New(patcher.DefaultURLPrefix)
//	out, report := p.Apply(doc, m)
//
// The package performs no I/O. Loading the inputs and persisting the result
// is left to the caller.
package patcher
