package build

import (
	"testing"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

func TestComposeMergesPlainRecipes(t *testing.T) {
	plan := []*recipe.Recipe{
		{Name: "zlib", Build: "make"},
		{Name: "libogg", Build: "make"},
		{Name: "libvorbis", Build: "make"},
	}

	stages := Compose(plan)
	if len(stages) != 1 {
		t.Fatalf("len(stages) = %d, want 1", len(stages))
	}
	if stages[0].Name != "zlib" {
		t.Fatalf("stage name = %q, want zlib", stages[0].Name)
	}
	if len(stages[0].Recipes) != 3 {
		t.Fatalf("stage recipes = %d, want 3", len(stages[0].Recipes))
	}
}

func TestComposeHookStartsStage(t *testing.T) {
	plan := []*recipe.Recipe{
		{Name: "zlib", Build: "make"},
		{Name: "headers", Layer: "make install"},
		{Name: "libopus", Build: "make"},
		{Name: "ffmpeg", Stage: "./configure", Build: "make"},
	}

	stages := Compose(plan)
	if len(stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3", len(stages))
	}

	wantNames := []string{"zlib", "headers", "ffmpeg"}
	wantSizes := []int{1, 2, 1}
	for i, stage := range stages {
		if stage.Name != wantNames[i] {
			t.Fatalf("stage[%d].Name = %q, want %q", i, stage.Name, wantNames[i])
		}
		if len(stage.Recipes) != wantSizes[i] {
			t.Fatalf("stage[%d] has %d recipes, want %d", i, len(stage.Recipes), wantSizes[i])
		}
	}
}

func TestComposePreservesPlanOrder(t *testing.T) {
	plan := []*recipe.Recipe{
		{Name: "a"},
		{Name: "b", Layer: "x"},
		{Name: "c"},
		{Name: "d"},
	}

	var flat []string
	for _, stage := range Compose(plan) {
		for _, rec := range stage.Recipes {
			flat = append(flat, rec.Name)
		}
	}

	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("flattened[%d] = %q, want %q", i, flat[i], want[i])
		}
	}
}

func TestComposeEmptyPlan(t *testing.T) {
	if stages := Compose(nil); len(stages) != 0 {
		t.Fatalf("len(stages) = %d, want 0", len(stages))
	}
}
