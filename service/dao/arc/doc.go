// Package arc holds the registry stores persisting arc records: memory
// keeps them for the process lifetime, fs writes one JSON document per arc
// through afs.
package arc

// ParamOuterArcID filters records by the id of their outer arc.
const ParamOuterArcID = "OuterArcID"
