package analog

import "testing"

func sampleChoices() []Choice {
	return []Choice{
		{Group: "apps", Path: "/var/log/app.log", Title: "app"},
		{Group: "apps", Path: "/var/log/db.log", Title: "db", Selected: true},
		{Group: "mixed", Path: "/var/log/all.log", Title: "all", UID: "all-in-one",
			Includes: []Inclusion{{Node: "n2", Path: "/x.log"}}},
		{Group: "remote", Path: "node://app1/opt/app.log", Title: "remote"},
	}
}

func TestResolve_NoPathUsesServerSelection(t *testing.T) {
	res := Resolve(sampleChoices(), "")
	if res.Selected == nil || res.Selected.Path != "/var/log/db.log" {
		t.Fatalf("Selected = %#v, want db.log", res.Selected)
	}
	if res.Path != "/var/log/db.log" {
		t.Fatalf("Path = %q, want /var/log/db.log", res.Path)
	}
	if len(res.Choices) != 4 {
		t.Fatalf("len(Choices) = %d, want 4", len(res.Choices))
	}
}

func TestResolve_NoPathNoSelection(t *testing.T) {
	choices := sampleChoices()
	choices[1].Selected = false
	res := Resolve(choices, "")
	if res.Selected != nil || res.Path != "" {
		t.Fatalf("Resolve = %#v, want nothing selected", res)
	}
}

func TestResolve_PathMatchesKnownChoice(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/VAR/LOG/APP.LOG", "/var/log/app.log"},
		{"all-in-one", "/var/log/all.log"},
		{"/node://app1/opt/app.log", "node://app1/opt/app.log"},
	}
	for _, tt := range tests {
		res := Resolve(sampleChoices(), tt.path)
		if res.Selected == nil || res.Selected.Path != tt.want {
			t.Fatalf("Resolve(%q).Selected = %#v, want %q", tt.path, res.Selected, tt.want)
		}
		if res.Path != "" {
			t.Fatalf("Resolve(%q).Path = %q, want empty", tt.path, res.Path)
		}
		if len(res.Choices) != 4 {
			t.Fatalf("Resolve(%q) changed choices to %d entries", tt.path, len(res.Choices))
		}
	}
}

func TestResolve_UnknownPathIsSynthesized(t *testing.T) {
	input := sampleChoices()
	res := Resolve(input, "/docker://frontend")
	if len(res.Choices) != 5 {
		t.Fatalf("len(Choices) = %d, want 5", len(res.Choices))
	}
	if len(input) != 4 {
		t.Fatalf("input slice modified to %d entries", len(input))
	}
	got := res.Choices[4]
	if got.Group != URLGroup || got.Title != "frontend" || got.Path != "docker://frontend" {
		t.Fatalf("synthesized = %#v", got)
	}
	if res.Selected == nil || res.Selected.Path != "docker://frontend" {
		t.Fatalf("Selected = %#v, want synthesized choice", res.Selected)
	}
	if !res.Selected.IsPlain() || res.Selected.Type() != LogTypeDocker {
		t.Fatalf("synthesized plain/type = %v/%q", res.Selected.IsPlain(), res.Selected.Type())
	}
}
