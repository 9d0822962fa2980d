// Package onnx runs a local transformer sentiment classifier through ONNX
// Runtime. Tokenization uses a HuggingFace tokenizer.json file.
package onnx

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"smart-notes-be/pkg/enrichment"

	tokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// DefaultMaxSequenceLength is the position limit of RoBERTa style encoders.
const DefaultMaxSequenceLength = 512

// DefaultLabels is the class order of the cardiffnlp twitter-roberta models.
var DefaultLabels = []string{"negative", "neutral", "positive"}

type Config struct {
	LibraryPath       string
	ModelPath         string
	TokenizerPath     string
	Labels            []string
	MaxSequenceLength int
}

// Runner serializes access to the inference device.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

type SentimentModel struct {
	tok     *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	labels  []string
	maxLen  int
	device  Device
	runner  Runner
}

var _ enrichment.Classifier = (*SentimentModel)(nil)

var envMu sync.Mutex

// initEnvironment loads the shared library once per process.
func initEnvironment(libraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// Shutdown releases the ONNX Runtime environment. Call after every session
// has been closed.
func Shutdown() error {
	envMu.Lock()
	defer envMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// Check reports whether the model and tokenizer files are configured and
// present.
func (c Config) Check() error {
	if c.ModelPath == "" || c.TokenizerPath == "" {
		return fmt.Errorf("onnx sentiment model or tokenizer path not configured")
	}
	for _, p := range []string{c.ModelPath, c.TokenizerPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("onnx asset: %w", err)
		}
	}
	return nil
}

// LoadSentimentModel creates a session on the requested device. CUDA fails
// with an error instead of silently running on CPU so callers can record
// which device actually served.
func LoadSentimentModel(cfg Config, device Device, runner Runner) (*SentimentModel, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	tok, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()

	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("failed to set graph optimization: %w", err)
	}

	if device == DeviceCUDA {
		if err := appendCUDA(opts); err != nil {
			return nil, err
		}
	} else if err := opts.SetIntraOpNumThreads(0); err != nil {
		return nil, fmt.Errorf("failed to set thread count: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	labels := cfg.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	maxLen := cfg.MaxSequenceLength
	if maxLen <= 0 {
		maxLen = DefaultMaxSequenceLength
	}

	return &SentimentModel{
		tok:     tok,
		session: session,
		labels:  labels,
		maxLen:  maxLen,
		device:  device,
		runner:  runner,
	}, nil
}

func appendCUDA(opts *ort.SessionOptions) error {
	cudaOpts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("CUDA not available: %w", err)
	}
	defer cudaOpts.Destroy()

	if err := cudaOpts.Update(map[string]string{"device_id": "0"}); err != nil {
		return fmt.Errorf("failed to update CUDA options: %w", err)
	}
	if err := opts.AppendExecutionProviderCUDA(cudaOpts); err != nil {
		return fmt.Errorf("failed to append CUDA provider: %w", err)
	}
	return nil
}

func (m *SentimentModel) Device() Device { return m.device }

func (m *SentimentModel) Classify(ctx context.Context, text string) (enrichment.Prediction, error) {
	enc, err := m.tok.EncodeSingle(text, true)
	if err != nil {
		return enrichment.Prediction{}, fmt.Errorf("tokenization failed: %w", err)
	}
	ids, mask := Truncate(enc.GetIds(), enc.GetAttentionMask(), m.maxLen)

	var logits []float32
	run := func() error {
		out, err := m.run(ids, mask)
		logits = out
		return err
	}
	if m.runner != nil {
		err = m.runner.Do(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return enrichment.Prediction{}, err
	}

	return Predict(logits, m.labels)
}

func (m *SentimentModel) run(ids, mask []int) ([]float32, error) {
	n := int64(len(ids))
	inputIDs := make([]int64, n)
	attention := make([]int64, n)
	for i := range ids {
		inputIDs[i] = int64(ids[i])
		attention[i] = int64(mask[i])
	}

	idsTensor, err := ort.NewTensor(ort.NewShape(1, n), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, n), attention)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := make([]ort.Value, 1)
	if err := m.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	tensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("output tensor is not float32 type")
	}

	// Copy before the tensor is destroyed.
	data := tensor.GetData()
	logits := make([]float32, len(data))
	copy(logits, data)
	return logits, nil
}

func (m *SentimentModel) Close() error {
	if m.session != nil {
		return m.session.Destroy()
	}
	return nil
}

// Truncate keeps the first maxLen-1 tokens plus the final end-of-sequence
// token so the encoder still sees a well-formed sequence.
func Truncate(ids, mask []int, maxLen int) ([]int, []int) {
	if len(ids) <= maxLen || maxLen < 2 {
		return ids, mask
	}
	outIDs := append(append([]int{}, ids[:maxLen-1]...), ids[len(ids)-1])
	outMask := append(append([]int{}, mask[:maxLen-1]...), mask[len(mask)-1])
	return outIDs, outMask
}

// Predict applies softmax to one row of logits and returns the top label.
func Predict(logits []float32, labels []string) (enrichment.Prediction, error) {
	if len(logits) != len(labels) {
		return enrichment.Prediction{}, fmt.Errorf("model returned %d logits for %d labels", len(logits), len(labels))
	}

	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, float64(l))
	}

	var sum float64
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}

	best := 0
	for i := range probs {
		probs[i] /= sum
		if probs[i] > probs[best] {
			best = i
		}
	}
	return enrichment.Prediction{Label: labels[best], Score: probs[best]}, nil
}
