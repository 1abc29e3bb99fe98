package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"milk, whole, 3.25% milkfat, with added vitamin d", "Whole milk"},
		{"milk, reduced fat, fluid, 2% milkfat, with added vitamin a and vitamin d", "Reduced fat milk"},
		{"chicken, broilers or fryers, breast, meat only, skinless, boneless, raw", "Chicken breast"},
		{"Bananas, raw", "Banana"},
		{"egg, whole, raw, fresh", "Egg"},
		{"egg, yolk, raw, frozen, pasteurized", "Egg yolk"},
		{"fish, salmon, atlantic, farmed, raw", "Salmon"},
		{"fish, unknown species", "Fish"},
		{"nuts, almonds", "Almond"},
		{"flour, almond", "Almond flour"},
		{"cookies, oatmeal, with raisins", "Oatmeal cookies"},
		{"apples, fuji, with skin, raw", "Fuji apple"},
		{"berries, mixed", "Berry"},
		{"beef, ground, 80% lean meat / 20% fat, raw", "Beef ground"},
		{"Tomatoes", "Tomato"},
		{"lentils", "Lentils"},
		{"peas", "Peas"},
		{"oats", "Oats"},
		{"  apple   pie  ", "Apple pie"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.raw), tc.raw)
	}
}

func TestNormalizeNameIsTotal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", NormalizeName(""))
	assert.Equal(t, ",", NormalizeName(","))
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "creme brulee", NormalizeQuery("  Crème   Brûlée "))
	assert.Equal(t, "chicken breast", NormalizeQuery("Chicken\tBREAST"))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestFoldNameAndCatalogName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jalapeno peppers, raw", FoldName("Jalapeño  Peppers, RAW"))
	assert.Equal(t, "jalapeño peppers, raw", CatalogName(" Jalapeño  Peppers, RAW "))
	assert.Equal(t, FoldName("crème brûlée"), FoldName(CatalogName("Crème Brûlée")))
	assert.Equal(t, NormalizeQuery("Crème Brûlée"), FoldName("crème brûlée"))
}
