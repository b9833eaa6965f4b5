// Package source caches pinned recipe sources on the host.
//
// Git sources are cloned and checked out at their pinned commit; plain URL
// sources are downloaded as-is. Every pin gets its own immutable cache
// directory, named so the fetcher and the stage script renderer agree on
// where a source lives once the cache is bind-mounted into a build
// container. Fetches are the single retried operation in a build.
package source
