package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := Version
	Version = "v0.3.1"
	defer func() { Version = old }()

	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version v0.3.1\n") {
		t.Errorf("Template() = %q", got)
	}
	if !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("Template() missing commit: %q", got)
	}
}
