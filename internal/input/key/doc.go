// Package key parses key specifications and maps key names to X keysyms.
//
// Key specifications use angle-bracket notation with single-letter
// modifiers:
//
//	<W-Return>     Super+Return
//	<W-S-q>        Super+Shift+q
//	<C-A-Delete>   Control+Alt+Delete
//
// The "Mod+Key" form ("Super+Shift+q") is accepted as well. Modifier
// letters are W (Super, Mod4), S (Shift), C (Control) and A or M (Alt,
// Mod1).
package key
