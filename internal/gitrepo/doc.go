// Package gitrepo is the version-control client datecommit drives.
//
// Reads go through go-git: [Open] validates that a directory is a non-bare
// repository and [Repository.Changed] lists untracked (and optionally
// modified) files. Writes shell out to the git binary so that clean filters
// configured in .gitattributes, Git LFS in particular, run on staged content.
// [Repository.Stage] and [Repository.Commit] each issue a single git call with
// NUL-separated literal pathspecs on stdin.
package gitrepo
