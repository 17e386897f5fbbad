package source

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/prometheus/common/model"

	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/series"
)

// apiResponse is the Prometheus HTTP API envelope. The result is decoded
// once the result type is known.
type apiResponse struct {
	Status    string `json:"status"`
	ErrorType string `json:"errorType"`
	Error     string `json:"error"`
	Data      struct {
		ResultType model.ValueType `json:"resultType"`
		Result     json.RawMessage `json:"result"`
	} `json:"data"`
}

// decodeResponse turns a Prometheus API body into time-ordered samples.
// Streams are filtered by labels. A missing result type is treated as a
// matrix. An empty result is not an error.
func decodeResponse(body []byte, labels map[string]string) ([]series.Sample, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Prometheus response is not valid JSON", "Check that the source URL points at the Prometheus HTTP API")
	}
	if resp.Status != "success" {
		msg := fmt.Sprintf("Prometheus query returned status %q", resp.Status)
		if resp.Error != "" {
			msg = fmt.Sprintf("Prometheus query failed (%s): %s", resp.ErrorType, resp.Error)
		}
		return nil, errors.New(errors.ErrParse, msg, "")
	}
	if len(resp.Data.Result) == 0 || string(resp.Data.Result) == "null" {
		return nil, nil
	}

	var samples []series.Sample
	switch resp.Data.ResultType {
	case model.ValMatrix, model.ValNone:
		var m model.Matrix
		if err := json.Unmarshal(resp.Data.Result, &m); err != nil {
			return nil, parseErr(err, "matrix")
		}
		for _, stream := range m {
			if !matchLabels(stream.Metric, labels) {
				continue
			}
			for _, p := range stream.Values {
				samples = append(samples, series.Sample{Time: p.Timestamp.Time(), Value: float64(p.Value)})
			}
		}
	case model.ValVector:
		var v model.Vector
		if err := json.Unmarshal(resp.Data.Result, &v); err != nil {
			return nil, parseErr(err, "vector")
		}
		for _, s := range v {
			if !matchLabels(s.Metric, labels) {
				continue
			}
			samples = append(samples, series.Sample{Time: s.Timestamp.Time(), Value: float64(s.Value)})
		}
	case model.ValScalar:
		var s model.Scalar
		if err := json.Unmarshal(resp.Data.Result, &s); err != nil {
			return nil, parseErr(err, "scalar")
		}
		samples = append(samples, series.Sample{Time: s.Timestamp.Time(), Value: float64(s.Value)})
	case model.ValString:
		var s model.String
		if err := json.Unmarshal(resp.Data.Result, &s); err != nil {
			return nil, parseErr(err, "string")
		}
		v, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return nil, parseErr(err, "string")
		}
		samples = append(samples, series.Sample{Time: s.Timestamp.Time(), Value: v})
	default:
		return nil, errors.Newf(errors.ErrParse, "unsupported Prometheus result type %q", resp.Data.ResultType)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	return samples, nil
}

func parseErr(err error, kind string) error {
	return errors.WrapWithCode(err, errors.ErrParse,
		fmt.Sprintf("Failed to decode Prometheus %s result", kind), "")
}

// matchLabels reports whether metric carries every required label value.
func matchLabels(metric model.Metric, required map[string]string) bool {
	for k, v := range required {
		if metric[model.LabelName(k)] != model.LabelValue(v) {
			return false
		}
	}
	return true
}
