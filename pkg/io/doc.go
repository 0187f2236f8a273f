// Package io provides JSON import and export for site layouts.
//
// # JSON Format
//
// A layout document carries the site it was computed for, the buildings, the
// id counter, and the audit of the layout against that site:
//
//	{
//	  "site": {"width": 200, "height": 140, ...},
//	  "buildings": [
//	    {"id": 1, "x": 12.5, "y": 40, "width": 30, "height": 20, "type": "A"}
//	  ],
//	  "next_id": 1,
//	  "energy": 440,
//	  "valid": false,
//	  "violations": [
//	    {"kind": "neighbor_missing", "buildings": [1]}
//	  ]
//	}
//
// Only buildings are required on import. A missing site selects
// [site.Default], and a missing next_id is set to the largest building id.
// Violations and energy are always recomputed on import; values present in
// the file are ignored.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. [NewDocument] audits a layout and fills in the derived fields.
package io
