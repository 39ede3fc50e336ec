// Package toolregistry provides a registry of named, schema-validated
// operations ("tools") for agent runtimes.
//
// Tools are registered under unique names with an optional parameter
// schema. Execution validates parameters before dispatch, measures
// wall-clock duration, and maintains per-tool usage and error metrics
// for the process lifetime. New tools can be built by composing
// existing ones into ordered sequences with parameter and result
// mapping.
package toolregistry
