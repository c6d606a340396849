// Package classifier wraps the TensorFlow Lite model that maps preprocessed
// scan tensors to a probability distribution over thyroid conditions.
package classifier

import (
	"fmt"
	"runtime"
	"sync"

	tflite "github.com/tphakala/go-tflite"

	"thyroscan/internal/imaging"
)

// Labels is the fixed ordered label set. The index of a label corresponds to
// the classifier's output index and must never drift between training and
// serving.
var Labels = []string{
	"hypothyroid",
	"hyperthyroid",
	"thyroid_cancer",
	"thyroid_nodules",
	"thyroiditis",
}

// Classifier produces a probability distribution over Labels for one input
// tensor. Implementations must be safe for concurrent use.
type Classifier interface {
	Predict(t *imaging.Tensor) ([]float32, error)
	Labels() []string
}

// Model is a TFLite-backed Classifier loaded once at process start.
type Model struct {
	interpreter *tflite.Interpreter
	labels      []string

	// The interpreter reuses its tensor buffers across invocations, so
	// concurrent requests are serialized here.
	mu sync.Mutex
}

// Load reads the serialized model artifact and prepares an interpreter.
// The model's output width is validated against the label set.
func Load(modelPath string) (*Model, error) {
	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return nil, fmt.Errorf("cannot load model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(runtime.NumCPU())

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, fmt.Errorf("cannot create interpreter")
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, fmt.Errorf("allocate tensors failed: %v", status)
	}

	output := interpreter.GetOutputTensor(0)
	if output == nil {
		return nil, fmt.Errorf("cannot get output tensor")
	}
	if got := output.Dim(output.NumDims() - 1); got != len(Labels) {
		return nil, fmt.Errorf("label count mismatch: model outputs %d classes, label set has %d", got, len(Labels))
	}

	return &Model{
		interpreter: interpreter,
		labels:      Labels,
	}, nil
}

// Labels returns the ordered label set.
func (m *Model) Labels() []string {
	return m.labels
}

// Predict runs inference on a single (1,128,128,3) tensor and returns the
// softmax distribution in label order.
func (m *Model) Predict(t *imaging.Tensor) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	input := m.interpreter.GetInputTensor(0)
	if input == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}
	copy(input.Float32s(), t.Data)

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("tensor invoke failed: %v", status)
	}

	output := m.interpreter.GetOutputTensor(0)
	if output == nil {
		return nil, fmt.Errorf("cannot get output tensor")
	}

	probs := make([]float32, len(m.labels))
	copy(probs, output.Float32s())
	return probs, nil
}

// Argmax returns the index and value of the maximum probability.
func Argmax(probs []float32) (int, float32) {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if len(probs) == 0 {
		return 0, 0
	}
	return best, probs[best]
}

// ensure Model satisfies Classifier
var _ Classifier = (*Model)(nil)
