// Package mouse binds pointer button specifications to commands.
//
// Button specifications reuse the key modifier syntax with a button
// number or name as the final part: "<W-4>", "<W-S-right>",
// "Super+scroll-down".
package mouse
