package indicators

// VolumeConfirmation compares the latest bar's volume with its trailing average
type VolumeConfirmation struct {
	Current float64
	Average float64 // NaN when fewer than the window bars exist
	Green   bool    // close > open on the latest bar
}

// ConfirmVolume evaluates the latest bar against the trailing window-bar
// average volume
func ConfirmVolume(opens, closes, volumes []float64, window int) (VolumeConfirmation, bool) {
	n := len(volumes)
	if n == 0 || len(opens) != n || len(closes) != n {
		return VolumeConfirmation{}, false
	}

	avg, _ := Last(SMA(volumes, window))
	return VolumeConfirmation{
		Current: volumes[n-1],
		Average: avg,
		Green:   closes[n-1] > opens[n-1],
	}, true
}

// AboveAverage reports whether current volume exceeds a defined average
func (v VolumeConfirmation) AboveAverage() bool {
	return !Undefined(v.Average) && v.Current > v.Average
}

// StrongBuying is above-average volume on an up candle
func (v VolumeConfirmation) StrongBuying() bool {
	return v.AboveAverage() && v.Green
}

// HeavySelling is above-average volume on a down candle
func (v VolumeConfirmation) HeavySelling() bool {
	return v.AboveAverage() && !v.Green
}
