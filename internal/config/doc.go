// Package config loads maproute route tables.
//
// A route table is a YAML or JSON document listing route definitions with
// their codecs given by name, plus the settings of the maproute tool:
//
//	log:
//	  level: info
//	  format: text
//	server:
//	  addr: ":8080"
//	routes:
//	  - id: element
//	    paths: [/:type/:id, /:type/:id/history]
//	    params:
//	      type: "enum:node|way|relation"
//	      id: positive-int
//
// Tables are read from a local file, from S3 ("s3://bucket/key"), or from
// the embedded default table of the map site. Codec names are resolved
// through a codec.Registry, and every error found while loading points at
// the line of the offending route.
package config
