// Package scan selects the untracked files whose filesystem timestamp falls
// inside a [daterange.Range].
//
// Which timestamp is read is an explicit [Source]: inode change time (ctime),
// modification time (mtime) or birth time. Files that cannot be stat'ed are
// dropped from the selection and reported through [Classify]: a dangling
// symbolic link is a warning, anything else an error. Neither aborts the scan.
package scan
