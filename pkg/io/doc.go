// Package io reads and writes organization documents.
//
// # Overview
//
// An organization document is a JSON (or YAML) tree of people. Each object
// needs a "name" and may carry "title", "department", "email",
// "licenseFlag" and any number of extra fields. Reports are listed in an
// ordered "children" array:
//
//	{
//	  "name": "Ada",
//	  "title": "CEO",
//	  "children": [
//	    {"name": "Grace", "department": "Engineering"},
//	    {"name": "Alan", "department": "Research"}
//	  ]
//	}
//
// The top level may also be an array of such objects. An array with one
// element is treated as that element; an array with several elements is
// shown under a synthetic "Organization" root (see [hierarchy.Build]).
//
// # Import
//
// [ReadDocument] decodes from any reader, [ImportFile] from a path. Both
// return the generic decoded value (maps, slices, strings, float64, bool,
// nil), which is what [hierarchy.Build] and [filter.Apply] consume. YAML
// input is normalized to the same shapes as JSON, so the rest of the
// pipeline never sees YAML-specific types.
//
// Decoding failures carry the PARSE_ERROR code from pkg/errors; a missing
// file carries FILE_NOT_FOUND.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a document as indented JSON. Objects
// are written with sorted keys, so exports are stable and diff well.
//
// [hierarchy.Build]: github.com/matzehuels/orgchart/pkg/hierarchy.Build
// [filter.Apply]: github.com/matzehuels/orgchart/pkg/filter.Apply
package io
