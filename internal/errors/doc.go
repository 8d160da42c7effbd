// Package errors provides the structured error messages printed by the
// maproute tool.
//
// Every error carries a code, a category and a short message. Errors found
// while loading a route table also carry the file position of the offending
// definition, and Format prints the surrounding lines:
//
//	ERROR R002: placeholder has no codec
//
//	  routes.yaml:14:5
//
//	      12 │   - id: node
//	      13 │     paths: [/node/:id]
//	  →   14 │     params: {}
//	         │     ^
//
//	  route "node", template "/node/:id": placeholder "id"
//
//	  Hint: Declare the parameter in Params, or map the placeholder to a
//	  declared parameter in ParamAliases.
//
// Codes M001-M099 belong to the tool itself; router codes (R001-R105) are
// converted by FromRouter and keep their code.
package errors
