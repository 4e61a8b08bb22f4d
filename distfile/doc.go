// Package distfile writes generated layout files. It compares SHA256
// digests of the new content and the file on disk so that unchanged outputs
// keep their modification time, and it backs the build --check mode.
package distfile
