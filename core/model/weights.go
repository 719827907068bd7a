package model

import (
	"encoding/json"
	"fmt"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
)

// ModelWeights はモデルの学習結果を表す構造体（シリアライゼーション用）
//
// 決定株では Coefficients にバケットの閾値、Labels にバケットのラベルを格納する。
// パーセプトロンでは Coefficients に重み行列を行優先で格納する。
type ModelWeights struct {
	// ModelType はモデルの種類（DecisionStump, Perceptron等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は実数値パラメータ
	Coefficients []float64 `json:"coefficients"`

	// Labels は整数値パラメータ（バケットのラベル等）
	Labels []int `json:"labels,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（分割列、デフォルトクラス等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "failed to unmarshal model weights")
	}
	return nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if !mw.IsFitted && (len(mw.Coefficients) > 0 || len(mw.Labels) > 0) {
		return errors.NewValidationError("is_fitted", "unfitted model should not have parameters", mw.IsFitted)
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 && len(mw.Labels) == 0 {
		return errors.NewValidationError("is_fitted", "fitted model must have parameters", mw.IsFitted)
	}
	return nil
}

// MetadataInt はメタデータから整数値を取り出す。
// JSONを経由した値は float64 になっているため両方を受け付ける。
func (mw *ModelWeights) MetadataInt(key string) (int, error) {
	v, ok := mw.Metadata[key]
	if !ok {
		return 0, errors.NewValidationError(key, "missing from metadata", nil)
	}
	return toInt(key, v)
}

// HyperparameterInt はハイパーパラメータから整数値を取り出す。
func (mw *ModelWeights) HyperparameterInt(key string) (int, error) {
	v, ok := mw.Hyperparameters[key]
	if !ok {
		return 0, errors.NewValidationError(key, "missing from hyperparameters", nil)
	}
	return toInt(key, v)
}

func toInt(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errors.NewValidationError(key, "must be an integer", n)
		}
		return int(n), nil
	default:
		return 0, errors.NewValidationError(key, fmt.Sprintf("unexpected type %T", v), v)
	}
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		IsFitted:        mw.IsFitted,
		Coefficients:    make([]float64, len(mw.Coefficients)),
		Labels:          make([]int, len(mw.Labels)),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	copy(clone.Coefficients, mw.Coefficients)
	copy(clone.Labels, mw.Labels)

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
