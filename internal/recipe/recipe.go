package recipe

// Kind of version pin carried by a source.
type PinKind string

const (
	PinCommit    PinKind = "commit"    // Git commit hash or tag object hash.
	PinRevision  PinKind = "revision"  // Subversion revision number.
	PinChangeset PinKind = "changeset" // Mercurial changeset ID.
	PinNone      PinKind = "none"      // No pin (meta-recipes, plain URLs).
)

// A single upstream source of a recipe.
//
// Most recipes carry exactly one git source pinned to a commit. A few carry
// several (helper repos checked out next to the main tree) or a plain URL
// for a release tarball. Subversion and Mercurial pins are recorded for the
// recipes that still live there; those recipes fetch inside the build
// container via a download override.
type Source struct {
	Repo      string `yaml:"repo,omitempty"`      // Repository URL.
	Commit    string `yaml:"commit,omitempty"`    // Pinned git commit hash.
	Branch    string `yaml:"branch,omitempty"`    // Branch to track for pin updates. Empty means the default branch.
	TagFilter string `yaml:"tagFilter,omitempty"` // Glob over tag names; the highest matching version becomes the pin.
	Revision  string `yaml:"revision,omitempty"`  // Pinned svn revision.
	Changeset string `yaml:"changeset,omitempty"` // Pinned hg changeset.
	URL       string `yaml:"url,omitempty"`       // Plain download URL (release tarballs).
}

// Returns the pin value, regardless of its kind.
func (s Source) Pin() string {
	switch {
	case s.Commit != "":
		return s.Commit
	case s.Revision != "":
		return s.Revision
	case s.Changeset != "":
		return s.Changeset
	}
	return ""
}

// Returns the kind of pin this source carries.
func (s Source) Kind() PinKind {
	switch {
	case s.Commit != "":
		return PinCommit
	case s.Revision != "":
		return PinRevision
	case s.Changeset != "":
		return PinChangeset
	}
	return PinNone
}

// A declarative build unit for one dependency or aggregator stage.
//
// Recipes declare where their source lives, when they apply, what they
// depend on, and a small set of lifecycle hooks: a download override, the
// native build script, docker layer/stage hooks, and flag emission for the
// final FFmpeg configure run. Hook bodies are opaque shell fragments; the
// orchestrator never interprets them.
type Recipe struct {
	Name         string   `yaml:"name"`
	Sources      []Source `yaml:"sources,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`

	// Skip marks an aggregator-only recipe (variants): it gates and orders
	// its dependencies but contributes no build steps of its own.
	Skip bool `yaml:"skip,omitempty"`

	// Addin marks a recipe that is disabled unless explicitly selected as
	// an addin for the build.
	Addin bool `yaml:"addin,omitempty"`

	// Enablement constraints. Empty lists match everything. Targets entries
	// are glob patterns ("win*"); variants match exactly.
	Targets  []string `yaml:"targets,omitempty"`
	Variants []string `yaml:"variants,omitempty"`

	// Lifecycle hooks, all optional.
	Download    string   `yaml:"download,omitempty"`    // Replaces the default source checkout.
	Build       string   `yaml:"build,omitempty"`       // Native build script (configure/make/install).
	Layer       string   `yaml:"layer,omitempty"`       // Docker layer hook; forces a stage boundary.
	Stage       string   `yaml:"stage,omitempty"`       // Docker stage hook; forces a stage boundary.
	Configure   []string `yaml:"configure,omitempty"`   // FFmpeg configure flags when enabled.
	Unconfigure []string `yaml:"unconfigure,omitempty"` // FFmpeg configure flags when absent.
	Ldflags     []string `yaml:"ldflags,omitempty"`     // Extra linker flags for the final link.

	path  string // File the recipe was loaded from.
	order int    // Declaration order within the registry.
}

// Returns the file path the recipe was declared in.
func (r *Recipe) Path() string {
	return r.path
}

// Returns the recipe's declaration order within its registry.
func (r *Recipe) Order() int {
	return r.order
}

// Reports whether the recipe defines a custom layer or stage hook.
//
// Hooked recipes open a new container build stage so their layer content is
// cacheable independently of earlier recipes.
func (r *Recipe) Hooked() bool {
	return r.Layer != "" || r.Stage != ""
}
