package facts

// #region snapshot

// Snapshot is the immutable evidence bundle for one item's classification
// cycle: the vision model's best guess plus the derived sensor properties.
// Ranges are validated upstream at the ingestion boundary; the decision core
// does not re-check them.
type Snapshot struct {
	CVLabel            string  `json:"cv_label"`
	CVConfidence       float64 `json:"cv_confidence"`
	WeightGrams        float64 `json:"weight_grams"`
	IsMetal            bool    `json:"is_metal"`
	HumidityPercent    float64 `json:"humidity_percent"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
	IsMoist            bool    `json:"is_moist"`
	IsTransparent      bool    `json:"is_transparent"`
	IsFlexible         bool    `json:"is_flexible"`
}

// #endregion snapshot
