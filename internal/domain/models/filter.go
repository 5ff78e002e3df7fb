package models

import (
	"encoding/json"
	"time"
)

// FilterMeta identifies a filter result and when it was produced.
type FilterMeta struct {
	Stock      string    `json:"stock"`
	FilterTime time.Time `json:"filterTime"`
}

// FilterResult is the full screening outcome for one symbol: metadata,
// optional fundamentals and one IndicatorSet per evaluated time frame.
//
// The wire form keeps time frames as top-level keys next to metaData, e.g.
//
//	{"metaData": {...}, "FinancialMetrics": {...}, "daily": {"BIAS": ...}}
//
// so marshalling flattens Frames into the object.
type FilterResult struct {
	Meta       FilterMeta
	Financials *FinancialMetrics
	Frames     map[string]*IndicatorSet
}

func (r *FilterResult) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.RawMessage, len(r.Frames)+2)

	meta, err := json.Marshal(r.Meta)
	if err != nil {
		return nil, err
	}
	flat["metaData"] = meta

	if r.Financials != nil {
		fin, err := json.Marshal(r.Financials)
		if err != nil {
			return nil, err
		}
		flat["FinancialMetrics"] = fin
	}

	for tf, set := range r.Frames {
		b, err := json.Marshal(set)
		if err != nil {
			return nil, err
		}
		flat[tf] = b
	}
	return json.Marshal(flat)
}

func (r *FilterResult) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	r.Frames = make(map[string]*IndicatorSet)
	for key, raw := range flat {
		switch key {
		case "metaData":
			if err := json.Unmarshal(raw, &r.Meta); err != nil {
				return err
			}
		case "FinancialMetrics":
			fin := &FinancialMetrics{}
			if err := json.Unmarshal(raw, fin); err != nil {
				return err
			}
			r.Financials = fin
		default:
			set := &IndicatorSet{}
			if err := json.Unmarshal(raw, set); err != nil {
				return err
			}
			r.Frames[key] = set
		}
	}
	return nil
}

// HasAnyFrame reports whether the result covers at least one of the given
// time frames.
func (r *FilterResult) HasAnyFrame(frames []string) bool {
	for _, tf := range frames {
		if _, ok := r.Frames[tf]; ok {
			return true
		}
	}
	return false
}
