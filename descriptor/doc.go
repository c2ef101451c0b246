// Package descriptor defines the metadata model consumed by the dacgen
// generator: one CommandDescriptor per data-access operation, carrying the
// command source, naming policy, parameter shape and capability contract.
//
// Descriptors can be constructed two ways:
//
//	// Fluent builder API
//	d := descriptor.New("GetUsers").
//		RawSQL("SELECT * FROM users WHERE active = @Active").
//		Params(descriptor.Param("Active", "bool")).
//		ReturnsMany("User").
//		Build()
//
//	// Declarative YAML files (see compiler/load)
//
// The command-source fields form a tagged union at the semantic level:
// exactly one of Procedure, RawSQL or Function may be set. Because the
// external input schema cannot enforce this structurally, the generator's
// analyzer reports a blocking diagnostic when more than one is populated.
package descriptor
