package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/specscout/internal/model"
	"github.com/sells-group/specscout/internal/specs"
)

const datasheetText = `AntennaX Pro 5000

Frequency: 2.4 GHz
Gain: 12 dBi
Weight: 1.2 kg
Connector: N-type
`

func TestRegexExtract_Datasheet(t *testing.T) {
	r := NewRegex(0)

	results, err := r.Extract(context.Background(), datasheetText, "/data/pdfs/antenna_x.pdf")
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "AntennaX Pro 5000", got.Product.Name)
	assert.Equal(t, "antenna_x.pdf", got.Product.File)
	assert.Equal(t, []model.Characteristic{
		{Name: "Frequency", Value: "2.4 GHz"},
		{Name: "Gain", Value: "12 dBi"},
		{Name: "Weight", Value: "1.2 kg"},
		{Name: "Connector", Value: "N-type"},
	}, got.Product.Characteristics)

	require.NotNil(t, got.WeightGrams)
	assert.Equal(t, 1200.0, *got.WeightGrams)
}

func TestRegexExtract_BlankTextIsNoMatch(t *testing.T) {
	r := NewRegex(0)

	for _, text := range []string{"", "   \n\t\n  "} {
		results, err := r.Extract(context.Background(), text, "empty.pdf")
		require.NoError(t, err)
		assert.Nil(t, results)
	}
}

func TestRegexExtract_NoWeightKeywordYieldsNilWeight(t *testing.T) {
	r := NewRegex(0)

	results, err := r.Extract(context.Background(), "Gadget\nGain: 3 dBi\n", "gadget.pdf")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].WeightGrams)
	assert.Equal(t, "Gadget", results[0].Product.Name)
}

func TestRegexExtract_FallbackAppendsSyntheticCharacteristic(t *testing.T) {
	r := NewRegex(0)
	text := "Cable Assembly CA-7\nThe total weight of the assembly is 2.2 kg including packaging.\n"

	results, err := r.Extract(context.Background(), text, "ca7.pdf")
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	require.NotNil(t, got.WeightGrams)
	assert.Equal(t, 2200.0, *got.WeightGrams)

	require.Len(t, got.Product.Characteristics, 1)
	assert.Equal(t, "Weight", got.Product.Characteristics[0].Name)
	assert.NotEmpty(t, got.Product.Characteristics[0].Value)
}

func TestRegexExtract_CharacteristicWinsOverFallback(t *testing.T) {
	r := NewRegex(0)
	text := "Bracket B2\nWeight: 500 g\nShipping mass is about 3 kg with the crate.\n"

	results, err := r.Extract(context.Background(), text, "b2.pdf")
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NotNil(t, results[0].WeightGrams)
	assert.Equal(t, 500.0, *results[0].WeightGrams)
	// No synthetic characteristic when a labeled one resolved.
	assert.Len(t, results[0].Product.Characteristics, 1)
}

func TestRegexExtract_NoLabeledLines(t *testing.T) {
	r := NewRegex(0)

	results, err := r.Extract(context.Background(), "\n\nscattered fragments 12 34\n", "scan.pdf")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "scattered fragments 12 34", results[0].Product.Name)
	assert.Empty(t, results[0].Product.Characteristics)
}

func TestNewRegexDefaultsLookahead(t *testing.T) {
	assert.Equal(t, specs.DefaultLookahead, NewRegex(0).lookahead)
	assert.Equal(t, specs.DefaultLookahead, NewRegex(-5).lookahead)
	assert.Equal(t, 250, NewRegex(250).lookahead)
}
