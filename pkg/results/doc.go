// Package results persists sampled run records and loads data for the
// optimal-value finder.
//
// # JSON Format
//
// [WriteJSON] writes a [cosim.Record] as indented JSON. Attributes and units
// are written by name:
//
//	{
//	  "run_id": "4f9c...",
//	  "model": "gate.inp",
//	  "units": "SI",
//	  "sampling_period": 900,
//	  "steps": 96,
//	  "entities": ["C-5", "R-4"],
//	  "attributes": ["flow"],
//	  "single_entity": false,
//	  "single_attribute": true,
//	  "time": [0, 0.25, 0.5],
//	  "values": [[[0.1, 0.4, 1.2], [1, 1, 0]]],
//	  "mass_balance": {"runoff": 0.01, "flow": -0.12, "quality": 0}
//	}
//
// Values are always stored as [attribute][entity][sample]; the record's
// single_* flags restore the requested shape on reload.
//
// # CSV Format
//
// [WriteCSV] writes one row per sample. The first column is the elapsed time
// in hours, followed by one column per entity and attribute named
// "entity:attribute", attributes outermost:
//
//	time_hours,C-5:flow,R-4:flow
//	0,0.1,1
//	0.25,0.4,1
//
// # Finder Input
//
// [LoadData] turns a file into [extreme.Data] by extension: record JSON
// keeps its requested shape, any other JSON value is classified with
// [extreme.Infer], CSV yields one series per value column, and anything else
// is read as "key value" records.
package results
