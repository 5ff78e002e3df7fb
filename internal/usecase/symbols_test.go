package usecase

import (
	"context"
	"reflect"
	"testing"
)

func TestResolvePassthroughDedupes(t *testing.T) {
	uc := NewSymbolsUseCase(&fakeSymbolSource{}, nil, nil)
	got, err := uc.Resolve(context.Background(), []string{"aapl", "MSFT", "AAPL", " tsla "})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveExpandsUniverse(t *testing.T) {
	src := &fakeSymbolSource{lists: map[string][]string{
		"sp500": {"AAPL", "MSFT", "NVDA"},
	}}
	uc := NewSymbolsUseCase(src, nil, nil)

	got, err := uc.Resolve(context.Background(), []string{"sp500", "IBM"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"AAPL", "MSFT", "NVDA", "IBM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveCachesUniverseLists(t *testing.T) {
	src := &fakeSymbolSource{lists: map[string][]string{
		"nasdaq": {"AAPL"},
	}}
	uc := NewSymbolsUseCase(src, nil, nil)

	for i := 0; i < 3; i++ {
		if _, err := uc.Resolve(context.Background(), []string{"nasdaq"}); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1 (cached)", src.calls)
	}
}
