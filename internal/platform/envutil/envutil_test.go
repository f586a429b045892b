package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("JT_TEST_INT", "12")
	if got := Int("JT_TEST_INT", 3); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
	t.Setenv("JT_TEST_INT", "x")
	if got := Int("JT_TEST_INT", 3); got != 3 {
		t.Fatalf("Int fallback: want=3 got=%d", got)
	}
}

func TestBoolAndDuration(t *testing.T) {
	t.Setenv("JT_TEST_BOOL", "off")
	if Bool("JT_TEST_BOOL", true) {
		t.Fatalf("Bool: want=false")
	}
	t.Setenv("JT_TEST_DUR", "5")
	if got := Duration("JT_TEST_DUR", time.Second); got != 5*time.Second {
		t.Fatalf("Duration secs: want=5s got=%v", got)
	}
	t.Setenv("JT_TEST_DUR", "250ms")
	if got := Duration("JT_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("Duration: want=250ms got=%v", got)
	}
}

func TestFloat64(t *testing.T) {
	t.Setenv("JT_TEST_FLOAT", "0.25")
	if got := Float64("JT_TEST_FLOAT", 0.1); got != 0.25 {
		t.Fatalf("Float64: want=0.25 got=%v", got)
	}
	t.Setenv("JT_TEST_FLOAT", "lots")
	if got := Float64("JT_TEST_FLOAT", 0.1); got != 0.1 {
		t.Fatalf("Float64 fallback: want=0.1 got=%v", got)
	}
}
