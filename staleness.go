package md2zim

import (
	"os"

	"github.com/alnah/go-md2zim/internal/timeutil"
)

// needsUpdate decides whether the page at destPath must be regenerated from
// srcPath. Rules apply in order, first match wins:
//
//  1. destination absent: update
//  2. metadata modified value parses: update iff strictly newer than the
//     destination's last write
//  3. otherwise: update iff the source file's mtime is strictly newer
//
// Any stat failure returns true: re-importing is cheaper than silent
// staleness.
func needsUpdate(srcPath, destPath string, metaModified any) bool {
	destInfo, err := os.Stat(destPath)
	if err != nil {
		return true
	}
	destMod := destInfo.ModTime().UTC()

	if metaModified != nil {
		if t, err := timeutil.ParseValue(metaModified); err == nil {
			return t.After(destMod)
		}
	}

	srcMod, err := timeutil.FileTime(srcPath, timeutil.KindModified)
	if err != nil {
		return true
	}
	return srcMod.After(destMod)
}
