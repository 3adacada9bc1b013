package version

import "testing"

func TestString(t *testing.T) {
	got := String("svg2gmsh")
	want := "svg2gmsh " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
	if got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
