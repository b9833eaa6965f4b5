package recipe

import "testing"

func TestRequested(t *testing.T) {
	ctx := Context{Variant: "gpl", Addins: []string{"libfdk-aac", "lv2"}}

	got := ctx.Requested()
	want := []string{"gpl", "libfdk-aac", "lv2"}
	if len(got) != len(want) {
		t.Fatalf("Requested() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Requested()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRequestedNoAddins(t *testing.T) {
	got := Context{Variant: "lgpl"}.Requested()
	if len(got) != 1 || got[0] != "lgpl" {
		t.Fatalf("Requested() = %v, want [lgpl]", got)
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		rec  Recipe
		ctx  Context
		want bool
	}{
		{
			name: "unconstrained matches everything",
			rec:  Recipe{Name: "zlib"},
			ctx:  Context{Target: "win64", Variant: "gpl"},
			want: true,
		},
		{
			name: "target glob match",
			rec:  Recipe{Name: "r", Targets: []string{"win*"}},
			ctx:  Context{Target: "win64", Variant: "gpl"},
			want: true,
		},
		{
			name: "target glob mismatch",
			rec:  Recipe{Name: "r", Targets: []string{"win*"}},
			ctx:  Context{Target: "linux64", Variant: "gpl"},
			want: false,
		},
		{
			name: "any target pattern suffices",
			rec:  Recipe{Name: "r", Targets: []string{"win*", "linux*"}},
			ctx:  Context{Target: "linuxarm64", Variant: "gpl"},
			want: true,
		},
		{
			name: "malformed pattern disables",
			rec:  Recipe{Name: "r", Targets: []string{"[win"}},
			ctx:  Context{Target: "win64", Variant: "gpl"},
			want: false,
		},
		{
			name: "variant exact match",
			rec:  Recipe{Name: "r", Variants: []string{"gpl", "gpl-shared"}},
			ctx:  Context{Target: "win64", Variant: "gpl-shared"},
			want: true,
		},
		{
			name: "variant no glob",
			rec:  Recipe{Name: "r", Variants: []string{"gpl*"}},
			ctx:  Context{Target: "win64", Variant: "gpl"},
			want: false,
		},
		{
			name: "variant mismatch",
			rec:  Recipe{Name: "r", Variants: []string{"gpl"}},
			ctx:  Context{Target: "win64", Variant: "lgpl"},
			want: false,
		},
		{
			name: "addin not selected",
			rec:  Recipe{Name: "libfdk-aac", Addin: true},
			ctx:  Context{Target: "win64", Variant: "gpl"},
			want: false,
		},
		{
			name: "addin selected",
			rec:  Recipe{Name: "libfdk-aac", Addin: true},
			ctx:  Context{Target: "win64", Variant: "gpl", Addins: []string{"libfdk-aac"}},
			want: true,
		},
		{
			name: "all constraints must hold",
			rec:  Recipe{Name: "r", Targets: []string{"win*"}, Variants: []string{"gpl"}},
			ctx:  Context{Target: "win64", Variant: "lgpl"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Enabled(tt.ctx); got != tt.want {
				t.Fatalf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
