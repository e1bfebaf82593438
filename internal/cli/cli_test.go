package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "ersmatch" {
		t.Errorf("root.Use = %q, want %q", root.Use, "ersmatch")
	}

	want := []string{"cache", "completion", "decode", "graph", "render", "runs", "serve"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseSyndrome(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "7", want: []int{7}},
		{name: "list", input: "0,3,7", want: []int{0, 3, 7}},
		{name: "spaces", input: "0, 3, 7", want: []int{0, 3, 7}},
		{name: "not a number", input: "0,x", wantErr: true},
		{name: "trailing comma", input: "0,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSyndrome(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSyndrome(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSyndrome(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCacheDirRespectsConfig(t *testing.T) {
	c := &CLI{Config: Config{CacheDir: "/tmp/custom-cache"}}

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != "/tmp/custom-cache" {
		t.Errorf("cacheDir() = %q, want %q", dir, "/tmp/custom-cache")
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	c := &CLI{}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != "/tmp/xdg/ersmatch" {
		t.Errorf("cacheDir() = %q, want %q", dir, "/tmp/xdg/ersmatch")
	}
}
