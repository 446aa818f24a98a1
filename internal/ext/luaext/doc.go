// Package luaext loads extension modules written in Lua.
//
// A module file returns a table of classes:
//
//	local M = {}
//	M.Columns = {
//	  arrange = function(self, area, windows) ... end,
//	}
//	return M
//
// What a class provides follows from its fields: an arrange function
// makes it a layout, a text function a widget, and a commands table a
// gadget. Instances are tables carrying the construction arguments with
// the class as their __index; an optional init function runs on each new
// instance.
//
// Only the base, table, string and math libraries are opened.
package luaext
