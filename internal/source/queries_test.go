package source

import (
	"reflect"
	"testing"

	"MarketFeed/internal/config"
)

func TestQueriesBaseOnly(t *testing.T) {
	t.Parallel()

	token := config.Token{Name: "Lift Dollar", Symbol: "USDL"}

	got := Queries(token)
	want := []string{"Lift Dollar USDL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Queries = %v, want %v", got, want)
	}
}

func TestQueriesMandatoryPhrasesInBase(t *testing.T) {
	t.Parallel()

	token := config.Token{
		Name:             "Lift Dollar",
		Symbol:           "USDL",
		MandatoryPhrases: []string{"stablecoin"},
	}

	got := Queries(token)
	if got[0] != "Lift Dollar USDL stablecoin" {
		t.Fatalf("base query = %q", got[0])
	}
}

func TestQueriesCombinationExpansion(t *testing.T) {
	t.Parallel()

	token := config.Token{
		Name:              "Lift Dollar",
		Symbol:            "USDL",
		AdditionalPhrases: []string{"a", "b"},
	}

	got := Queries(token)
	want := []string{
		"Lift Dollar USDL",
		"Lift Dollar USDL a",
		"Lift Dollar USDL b",
		"Lift Dollar USDL a b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Queries = %v, want %v", got, want)
	}
}

func TestQueriesCountGrowsExponentially(t *testing.T) {
	t.Parallel()

	token := config.Token{
		Name:              "N",
		Symbol:            "S",
		AdditionalPhrases: []string{"a", "b", "c"},
	}

	if got := len(Queries(token)); got != 8 {
		t.Fatalf("expected 1 + 2^3 - 1 = 8 queries, got %d", got)
	}
}
