package estimator

import (
	"context"
	"fmt"
	"os"

	"CollegeROI/internal/domain/models"
	domsvc "CollegeROI/internal/domain/service"

	"gopkg.in/yaml.v3"
)

// ArtifactModel is a one-hot linear model exported from training.
// Categories missing from a weight table contribute nothing.
type ArtifactModel struct {
	Version    string             `yaml:"version"`
	Intercept  float64            `yaml:"intercept"`
	Credential map[string]float64 `yaml:"credential_code"`
	Major      map[string]float64 `yaml:"major_field"`
	Control    map[string]float64 `yaml:"control_type"`
	State      map[string]float64 `yaml:"state"`
}

// ArtifactEstimator evaluates an ArtifactModel in process.
type ArtifactEstimator struct {
	model ArtifactModel
}

var _ domsvc.IncomeEstimator = (*ArtifactEstimator)(nil)

// LoadArtifactEstimator reads the model file once.
func LoadArtifactEstimator(path string) (*ArtifactEstimator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var m ArtifactModel
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(m.Credential) == 0 && len(m.Major) == 0 && len(m.Control) == 0 && len(m.State) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}
	return NewArtifactEstimator(m), nil
}

func NewArtifactEstimator(m ArtifactModel) *ArtifactEstimator {
	return &ArtifactEstimator{model: m}
}

func (e *ArtifactEstimator) Version() string {
	return e.model.Version
}

func (e *ArtifactEstimator) Estimate(ctx context.Context, in models.EstimatorInput) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := e.model
	return m.Intercept +
		m.Credential[in.CredentialCode] +
		m.Major[in.MajorField] +
		m.Control[in.ControlType] +
		m.State[in.State], nil
}
