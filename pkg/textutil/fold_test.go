package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meatpack/estoque/pkg/textutil"
)

func TestFold(t *testing.T) {
	assert.Equal(t, textutil.Fold("  Picanha "), textutil.Fold("PICANHA"))
	assert.Equal(t, textutil.Fold("SUÍNA"), textutil.Fold("suína"))
	// "í" precompuesta vs "i" + acento combinante
	assert.Equal(t, textutil.Fold("Su\u00edna"), textutil.Fold("Sui\u0301na"))
	assert.NotEqual(t, textutil.Fold("Picanha"), textutil.Fold("Maminha"))
}

func TestSameLower(t *testing.T) {
	assert.True(t, textutil.SameLower("Picanha", "PICANHA"))
	assert.True(t, textutil.SameLower("SUÍNA", "suína"))
	assert.False(t, textutil.SameLower("Straße", "STRASSE"))
	assert.False(t, textutil.SameLower("Picanha ", "picanha"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, textutil.ContainsFold("Bovina", "bov"))
	assert.True(t, textutil.ContainsFold("Bovina", "BOV"))
	assert.True(t, textutil.ContainsFold("Frigorífico Minerva", "minerva"))
	assert.False(t, textutil.ContainsFold("Aves", "bov"))
	assert.True(t, textutil.ContainsFold("qualquer", ""))
}
