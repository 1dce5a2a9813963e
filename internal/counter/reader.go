// Package counter reads counter files from a sysfs/procfs-style directory.
package counter

import (
	"os"
	"strconv"
	"strings"
)

// Read reads path, trims surrounding whitespace, and parses it as a base-10
// unsigned 64-bit integer. Any failure — missing file, unreadable file,
// unparseable or negative contents — resolves to zero rather than an error.
// This permissive policy is load-bearing for counters that appear and
// disappear at runtime.
func Read(path string) uint64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}

	return v
}
