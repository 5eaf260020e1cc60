// Package testutil provides deterministic collaborators (scripted
// models, static data sources) shared by tests across the module.
package testutil
