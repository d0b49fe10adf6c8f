package tokenize

import (
	"reflect"
	"testing"
)

func TestTokenizeRemovesAsides(t *testing.T) {
	got := Tokenize("안녕(인사) 하세요 [효과음]")
	want := []string{"안녕", "하세요"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeStripsNonHangul(t *testing.T) {
	got := Tokenize("- 진짜?\n- 응, 진짜! OK 3번")
	want := []string{"진짜", "응", "번"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeNonGreedyAsides(t *testing.T) {
	got := Tokenize("(민수) 밥 먹었어? (웃음) 응")
	want := []string{"밥", "먹었어", "응"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeFullWidthAside(t *testing.T) {
	got := Tokenize("（지훈）가자")
	want := []string{"가자"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize("[음악]\n♪ ~ ♪"); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}
