package util

import "testing"

func TestBrowserCommands(t *testing.T) {
	t.Parallel()

	url := "http://localhost:20262"
	cases := map[string]string{
		"windows": "rundll32",
		"darwin":  "open",
		"linux":   "xdg-open",
	}
	for goos, first := range cases {
		cmds := browserCommands(goos, url)
		if len(cmds) == 0 {
			t.Fatalf("%s: no commands", goos)
		}
		if cmds[0][0] != first {
			t.Fatalf("%s: unexpected first command %q", goos, cmds[0][0])
		}
		for _, c := range cmds {
			if c[len(c)-1] != url {
				t.Fatalf("%s: url not passed to %v", goos, c)
			}
		}
	}
}
