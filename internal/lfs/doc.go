// Package lfs registers large files with Git LFS before they are committed.
//
// Two [Tracker] strategies produce the same result, one
// "<pattern> filter=lfs diff=lfs merge=lfs -text" line per file in
// .gitattributes at the repository root:
//
//   - [AttributesTracker] writes the lines in-process. It is only selected when
//     the git configuration already carries the LFS filter driver, so that
//     git add runs the clean filter on the staged content.
//   - [CLITracker] runs "git lfs track" once per file.
//
// [Probe] picks one at startup. When neither is usable it returns
// [ErrUnavailable]; large files are never committed as plain blobs.
package lfs
