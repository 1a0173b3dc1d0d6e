package cli

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionInfoString(t *testing.T) {
	tests := []struct {
		name string
		info VersionInfo
		want string
	}{
		{"release", VersionInfo{Tool: "ramen", Version: "1.0.0", GoVersion: "go1.23.0", Platform: "linux/amd64"}, "ramen 1.0.0 (go1.23.0 linux/amd64)"},
		{"with commit", VersionInfo{Tool: "ramen", Version: "1.0.0", CommitSHA: "abc123", GoVersion: "go1.23.0", Platform: "linux/amd64"}, "ramen 1.0.0 (abc123, go1.23.0 linux/amd64)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVersion(&buf, "ramen", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ramen "+Version+" (") {
		t.Fatalf("plain version = %q", buf.String())
	}

	buf.Reset()
	if err := WriteVersion(&buf, "ramen", true); err != nil {
		t.Fatal(err)
	}
	var info VersionInfo
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("version JSON: %v\n%s", err, buf.String())
	}
	if info.Tool != "ramen" || info.GoVersion != runtime.Version() || info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Fatalf("unexpected version info %+v", info)
	}
}
