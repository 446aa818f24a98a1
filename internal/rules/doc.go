// Package rules compiles per-window rule declarations and applies them to
// windows as they are mapped.
//
// Rules are declared per WM_CLASS class, or under "global":
//
//	rules:
//	  global:
//	  - has-type: DIALOG
//	    float: true
//	  Firefox:
//	  - role: browser
//	    move-to-group: web
//
// Each key of a rule names a condition kind or an action kind. A sequence
// value gives positional arguments, a mapping keyword arguments, and a
// scalar one positional argument. Unknown keys and rules without actions
// are compile errors.
package rules
