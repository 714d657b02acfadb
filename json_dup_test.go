package zod

import (
	"strings"
	"testing"
)

func TestDetectJSONDuplicateKeysBytes_NoDup(t *testing.T) {
	js := []byte(`{"a":1,"b":2}`)
	iss, err := DetectJSONDuplicateKeysBytes(js, Warn, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 0 {
		t.Fatalf("expected 0 issues, got %d: %v", len(iss), iss)
	}
}

func TestDetectJSONDuplicateKeysBytes_WithDup(t *testing.T) {
	js := []byte(`{"a":1,"a":2,"b":{"c":1,"c":2}}`)
	iss, err := DetectJSONDuplicateKeysBytes(js, Warn, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("expected 2 duplicate_key issues, got %v", iss)
	}
	if iss[0].Code != CodeDuplicateKey || iss[0].Path != "/a" || iss[1].Path != "/b/c" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestDetectJSONDuplicateKeys_Limits(t *testing.T) {
	js := `{"a":1,"a":2,"b":1,"b":2}`
	iss, err := DetectJSONDuplicateKeysReader(strings.NewReader(js), Error, 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 1 {
		t.Fatalf("maxIssues=1 should cap the result, got %v", iss)
	}
	iss, _ = DetectJSONDuplicateKeysBytes([]byte(js), Ignore, -1)
	if len(iss) != 0 {
		t.Fatalf("Ignore should disable detection, got %v", iss)
	}
}
