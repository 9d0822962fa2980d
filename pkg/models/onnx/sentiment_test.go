package onnx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	pred, err := Predict([]float32{-1.2, 0.1, 2.5}, DefaultLabels)
	require.NoError(t, err)

	assert.Equal(t, "positive", pred.Label)
	want := math.Exp(2.5) / (math.Exp(-1.2) + math.Exp(0.1) + math.Exp(2.5))
	assert.InDelta(t, want, pred.Score, 1e-6)

	pred, err = Predict([]float32{0, 0, 0}, DefaultLabels)
	require.NoError(t, err)
	assert.Equal(t, "negative", pred.Label, "ties resolve to the first label")
	assert.InDelta(t, 1.0/3.0, pred.Score, 1e-9)

	_, err = Predict([]float32{1, 2}, DefaultLabels)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	ids := []int{0, 11, 12, 13, 14, 2}
	mask := []int{1, 1, 1, 1, 1, 1}

	gotIDs, gotMask := Truncate(ids, mask, 4)
	assert.Equal(t, []int{0, 11, 12, 2}, gotIDs)
	assert.Equal(t, []int{1, 1, 1, 1}, gotMask)
	assert.Equal(t, []int{0, 11, 12, 13, 14, 2}, ids, "input is not modified")

	gotIDs, _ = Truncate(ids, mask, 10)
	assert.Equal(t, ids, gotIDs)
}

func TestLoadSentimentModel_MissingAssets(t *testing.T) {
	_, err := LoadSentimentModel(Config{}, DeviceCPU, nil)
	assert.ErrorContains(t, err, "not configured")

	dir := t.TempDir()
	model := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(model, []byte("x"), 0o600))

	_, err = LoadSentimentModel(Config{ModelPath: model, TokenizerPath: filepath.Join(dir, "tokenizer.json")}, DeviceCPU, nil)
	assert.ErrorContains(t, err, "onnx asset")
}
