package facts

// #region readings

// Readings holds one raw measurement sweep from the sensor bridge.
// IRTransparency and FlexSignal are normalized to 0..1 by the bridge.
type Readings struct {
	WeightGrams        float64 `json:"weight_grams"`
	Inductive          bool    `json:"inductive"`
	HumidityPercent    float64 `json:"humidity_percent"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
	IRTransparency     float64 `json:"ir_transparency"`
	FlexSignal         float64 `json:"flex_signal"`
}

// #endregion readings

// #region derive-config

// DeriveConfig holds the thresholds that turn continuous raw readings into
// the boolean fact fields rules match on.
type DeriveConfig struct {
	MoistureThresholdPercent float64 // humidity at or above this sets IsMoist
	TransparencyThreshold    float64 // IR transparency at or above this sets IsTransparent
	FlexThreshold            float64 // flex signal at or above this sets IsFlexible
}

// DefaultDeriveConfig returns the thresholds tuned on the bench rig.
func DefaultDeriveConfig() DeriveConfig {
	return DeriveConfig{
		MoistureThresholdPercent: 60.0,
		TransparencyThreshold:    0.6,
		FlexThreshold:            0.5,
	}
}

// #endregion derive-config

// #region derive

// Derive builds an immutable Snapshot from the vision detection and one raw
// sensor sweep. Pure; the returned value is never mutated afterwards.
func Derive(cvLabel string, cvConfidence float64, r Readings, cfg DeriveConfig) Snapshot {
	return Snapshot{
		CVLabel:            cvLabel,
		CVConfidence:       cvConfidence,
		WeightGrams:        r.WeightGrams,
		IsMetal:            r.Inductive,
		HumidityPercent:    r.HumidityPercent,
		TemperatureCelsius: r.TemperatureCelsius,
		IsMoist:            r.HumidityPercent >= cfg.MoistureThresholdPercent,
		IsTransparent:      r.IRTransparency >= cfg.TransparencyThreshold,
		IsFlexible:         r.FlexSignal >= cfg.FlexThreshold,
	}
}

// #endregion derive
