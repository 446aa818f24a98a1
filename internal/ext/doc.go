// Package ext resolves layout, widget and gadget class names.
//
// Classes live in modules. Bundled modules are registered explicitly in a
// Registry at startup; script modules are loaded by a ModuleLoader from
// the first directory of the search path that holds them. A search path
// module shadows a bundled module of the same name.
//
// Resolution never fails: every problem is logged as a warning and the
// caller's fallback class is returned instead.
package ext
