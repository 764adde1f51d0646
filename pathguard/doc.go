// Package pathguard rejects log targets that could redirect writes outside
// the intended location. A target is unsafe when any ancestor directory is a
// symbolic link, or when the target itself is a symbolic link or exists as
// anything but a regular file. A missing target is fine; it will be created.
//
// Facilities call [AssertSafe] before creation, before every rotation step,
// and before every append, so a symlink planted between writes is still
// caught.
package pathguard
