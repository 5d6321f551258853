package pptdom

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 cm = 360000 EMU.

const (
	emuPerInch       = 914400
	emuPerPoint      = 12700
	emuPerCentimeter = 360000
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2

	// angleUnitsPerDegree is the ST_Angle scale (60000ths of a degree).
	angleUnitsPerDegree = 60000
	// hundredthsPerPoint is the ST_TextFontSize scale.
	hundredthsPerPoint = 100
)

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// Centimeter converts centimeters to EMU.
func Centimeter(n float64) int64 {
	return clampEMU(n * emuPerCentimeter)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// EMUToPoint converts EMU to points.
func EMUToPoint(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// AngleToDegrees converts an ST_Angle value to degrees.
func AngleToDegrees(a int64) float64 {
	return float64(a) / angleUnitsPerDegree
}

// DegreesToAngle converts degrees to an ST_Angle value in [0, 21600000).
func DegreesToAngle(d float64) int64 {
	return int64(math.Round(normalizeDegrees(d) * angleUnitsPerDegree))
}

// FontSizeToPoints converts hundredths of a point to points.
func FontSizeToPoints(sz int64) float64 {
	return float64(sz) / hundredthsPerPoint
}

// PointsToFontSize converts points to hundredths of a point.
func PointsToFontSize(pt float64) int64 {
	return int64(math.Round(pt * hundredthsPerPoint))
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}
