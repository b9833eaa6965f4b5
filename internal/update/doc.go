// Package update keeps recipe pins current with their upstreams.
//
// For every git-pinned source it lists the remote's references over the
// wire: with a tag filter the highest matching version wins, otherwise the
// head of the tracked or default branch does. Stale pins are rewritten in
// place in the recipe files. Sources pinned to Subversion revisions or
// Mercurial changesets are flagged for manual checking.
package update
