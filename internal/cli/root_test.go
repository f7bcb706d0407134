package cli

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"init", "serve", "audit", "authorize", "schema", "validate-definitions", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q) error: %v", name, err)
		}
		if cmd.Name() != name {
			t.Fatalf("Find(%q) resolved to %q", name, cmd.Name())
		}
	}
}
