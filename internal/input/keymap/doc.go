// Package keymap binds key specifications to commands and grabs them on
// the root window.
//
// A binding is grabbed once per keycode producing its keysym and once per
// combination of the lock-style modifiers (Caps Lock, Num Lock), so a
// hotkey fires regardless of their state. Lookup strips those modifiers
// before matching.
//
//	reg := keymap.NewRegistry(log, conn, root, key.LoadDefaultTable())
//	if err := reg.Init(); err != nil {
//	    return err
//	}
//	_ = reg.Add("<W-Return>", []string{"env", "shell", "xterm"})
//	if cmd, ok := reg.Lookup(ev); ok {
//	    _ = commands.Call(cmd)
//	}
package keymap
