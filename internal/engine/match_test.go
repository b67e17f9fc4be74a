package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinfo/medinfo-api/internal/model"
)

func drug(name, indications string, ingredients ...string) *model.DrugRecord {
	return &model.DrugRecord{
		Name:              name,
		Indications:       indications,
		ActiveIngredients: ingredients,
	}
}

func testCatalog() []*model.DrugRecord {
	return []*model.DrugRecord{
		drug("Aspirin", "pain relief, fever reduction", "acetylsalicylic acid"),
		drug("Ibuprofen", "pain and inflammation", "ibuprofen"),
		drug("Paracetamol", "fever and mild pain", "paracetamol"),
		drug("Amoxicillin", "bacterial infections", "amoxicillin trihydrate"),
	}
}

func TestFindFirstMatchByName(t *testing.T) {
	catalog := testCatalog()

	got := FindFirstMatch("aspir", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Aspirin", got.Name)
}

func TestFindFirstMatchFallsBackToIndications(t *testing.T) {
	catalog := testCatalog()

	// No name contains "fever"; the earliest indications match wins.
	got := FindFirstMatch("fever", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Aspirin", got.Name)
}

func TestFindFirstMatchCatalogOrderBreaksTies(t *testing.T) {
	catalog := testCatalog()

	// Both Aspirin and Ibuprofen mention pain; first in catalog order wins.
	got := FindFirstMatch("pain", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Aspirin", got.Name)
}

func TestFindFirstMatchTrimsAndFolds(t *testing.T) {
	catalog := testCatalog()

	got := FindFirstMatch("  IBUPROFEN  ", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Ibuprofen", got.Name)
}

func TestFindFirstMatchNoHit(t *testing.T) {
	assert.Nil(t, FindFirstMatch("insulin", testCatalog()))
}

func TestFindFirstMatchSkipsRecordsWithoutNameAndIndications(t *testing.T) {
	catalog := []*model.DrugRecord{
		drug("", ""),
		drug("Aspirin", ""),
	}

	got := FindFirstMatch("aspirin", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Aspirin", got.Name)
	assert.Nil(t, FindFirstMatch("anything", []*model.DrugRecord{drug("", "")}))
}

func TestFindAllMatchesAcrossFields(t *testing.T) {
	catalog := testCatalog()

	got := FindAllMatches("pain", catalog)
	require.Len(t, got, 3)
	assert.Equal(t, "Aspirin", got[0].Name)
	assert.Equal(t, "Ibuprofen", got[1].Name)
	assert.Equal(t, "Paracetamol", got[2].Name)
}

func TestFindAllMatchesByActiveIngredient(t *testing.T) {
	got := FindAllMatches("trihydrate", testCatalog())
	require.Len(t, got, 1)
	assert.Equal(t, "Amoxicillin", got[0].Name)
}

func TestFindAllMatchesJoinsIngredientsWithComma(t *testing.T) {
	catalog := []*model.DrugRecord{
		drug("Combo", "", "alpha", "beta"),
	}

	// The joined form is "alpha, beta"; the query spans the separator.
	got := FindAllMatches("alpha, beta", catalog)
	assert.Len(t, got, 1)
}

func TestFindAllMatchesEmptyQueryReturnsCatalog(t *testing.T) {
	catalog := testCatalog()
	assert.Equal(t, catalog, FindAllMatches("", catalog))
	assert.Equal(t, catalog, FindAllMatches("   ", catalog))
}

func TestFindAllMatchesAbsentIngredients(t *testing.T) {
	catalog := []*model.DrugRecord{
		{Name: "Bare", Indications: "headache"},
	}

	got := FindAllMatches("headache", catalog)
	require.Len(t, got, 1)
	assert.Equal(t, "Bare", got[0].Name)
}

func TestFindAllMatchesNoHit(t *testing.T) {
	assert.Empty(t, FindAllMatches("insulin", testCatalog()))
}

func TestFindExactByName(t *testing.T) {
	catalog := testCatalog()

	got := FindExactByName("Aspirin", catalog)
	require.NotNil(t, got)
	assert.Equal(t, "Aspirin", got.Name)

	// Exact means exact: no folding, no substring.
	assert.Nil(t, FindExactByName("aspirin", catalog))
	assert.Nil(t, FindExactByName("Aspir", catalog))
	assert.Nil(t, FindExactByName("", catalog))
}

func TestMatchersAreIdempotent(t *testing.T) {
	catalog := testCatalog()

	first := FindAllMatches("pain", catalog)
	second := FindAllMatches("pain", catalog)
	assert.Equal(t, first, second)

	assert.Equal(t, FindFirstMatch("fever", catalog), FindFirstMatch("fever", catalog))
}
