package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs_RedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"user_id", "7c1b",
		"email", "a@b.c",
		"resume_text", "ten years of go",
		"quest", "first_application",
	})
	if len(out) != 8 {
		t.Fatalf("len: want=8 got=%d", len(out))
	}
	if s, _ := out[1].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id: want hash got=%v", out[1])
	}
	if out[3] != "[REDACTED]" || out[5] != "[REDACTED]" {
		t.Fatalf("redaction: got=%v %v", out[3], out[5])
	}
	if out[7] != "first_application" {
		t.Fatalf("plain value: want=first_application got=%v", out[7])
	}
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"kind", "outreach", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("odd kv: got=%v", out)
	}
}

func TestHashValue_Stable(t *testing.T) {
	if hashValue("u1") != hashValue("u1") {
		t.Fatalf("hash not stable")
	}
	if hashValue("") != "" {
		t.Fatalf("empty: want empty hash")
	}
}
