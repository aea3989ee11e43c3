package layout

import (
	"math"

	"github.com/go-drift/fabric/pkg/graphics"
)

// edgeValues holds resolved numbers for the four physical edges.
type edgeValues [4]float64

func (e edgeValues) insets() graphics.EdgeInsets {
	return graphics.EdgeInsets{Left: e[EdgeLeft], Top: e[EdgeTop], Right: e[EdgeRight], Bottom: e[EdgeBottom]}
}

// cachedMeasurement records the result of one layout or measure call.
type cachedMeasurement struct {
	availableWidth  float64
	availableHeight float64
	widthMode       MeasureMode
	heightMode      MeasureMode
	computedWidth   float64
	computedHeight  float64
}

func emptyCachedMeasurement() cachedMeasurement {
	return cachedMeasurement{
		availableWidth:  -1,
		availableHeight: -1,
		widthMode:       MeasureModeUndefined,
		heightMode:      MeasureModeUndefined,
		computedWidth:   -1,
		computedHeight:  -1,
	}
}

// results is the per-node layout state written by the algorithm.
type results struct {
	position           edgeValues
	dimensions         [2]float64
	measuredDimensions [2]float64
	margin             edgeValues
	border             edgeValues
	padding            edgeValues
	direction          Direction
	hadOverflow        bool
	lineIndex          int

	computedFlexBasis           float64
	computedFlexBasisGeneration uint32
	generationCount             uint32
	lastOwnerDirection          Direction

	// cachedMeasurements is a ring: when nextCachedMeasurementsIndex reaches
	// len(cachedMeasurements) it wraps and overwrites the oldest entry.
	nextCachedMeasurementsIndex int
	cachedMeasurementCount      int
	cachedMeasurements          []cachedMeasurement
	cachedLayout                cachedMeasurement
}

func (r *results) reset(cacheSize int) {
	r.dimensions = [2]float64{Undefined, Undefined}
	r.measuredDimensions = [2]float64{Undefined, Undefined}
	r.computedFlexBasis = Undefined
	r.lastOwnerDirection = DirectionInherit
	r.cachedMeasurements = make([]cachedMeasurement, cacheSize)
	r.invalidateCache()
}

func (r *results) invalidateCache() {
	r.nextCachedMeasurementsIndex = 0
	r.cachedMeasurementCount = 0
	r.cachedLayout = emptyCachedMeasurement()
}

// usedCachedMeasurements returns the filled part of the measurement ring.
func (r *results) usedCachedMeasurements() []cachedMeasurement {
	return r.cachedMeasurements[:r.cachedMeasurementCount]
}

// newMeasurementEntry returns the slot for the next measurement, evicting
// the oldest entry once the ring is full.
func (r *results) newMeasurementEntry() *cachedMeasurement {
	if r.nextCachedMeasurementsIndex >= len(r.cachedMeasurements) {
		r.nextCachedMeasurementsIndex = 0
	}
	entry := &r.cachedMeasurements[r.nextCachedMeasurementsIndex]
	r.nextCachedMeasurementsIndex++
	if r.cachedMeasurementCount < len(r.cachedMeasurements) {
		r.cachedMeasurementCount++
	}
	return entry
}

// roundValueToPixelGrid snaps value to the physical pixel grid defined by
// pointScaleFactor.
func roundValueToPixelGrid(value, pointScaleFactor float64, forceCeil, forceFloor bool) float64 {
	scaled := value * pointScaleFactor
	fractional := math.Mod(scaled, 1.0)
	if fractional < 0 {
		// math.Mod keeps the sign of the dividend; work with the floor.
		fractional++
	}
	switch {
	case FloatsEqual(fractional, 0):
		scaled -= fractional
	case FloatsEqual(fractional, 1.0):
		scaled = scaled - fractional + 1.0
	case forceCeil:
		scaled = scaled - fractional + 1.0
	case forceFloor:
		scaled -= fractional
	default:
		if !IsUndefined(fractional) && (fractional > 0.5 || FloatsEqual(fractional, 0.5)) {
			scaled = scaled - fractional + 1.0
		} else {
			scaled -= fractional
		}
	}
	if IsUndefined(scaled) || IsUndefined(pointScaleFactor) {
		return Undefined
	}
	return scaled / pointScaleFactor
}

func sizeIsExactAndMatchesOldMeasuredSize(mode MeasureMode, size, lastComputedSize float64) bool {
	return mode == MeasureModeExactly && FloatsEqual(size, lastComputedSize)
}

func oldSizeIsUnspecifiedAndStillFits(mode MeasureMode, size float64, lastMode MeasureMode, lastComputedSize float64) bool {
	return mode == MeasureModeAtMost && lastMode == MeasureModeUndefined &&
		(size >= lastComputedSize || FloatsEqual(size, lastComputedSize))
}

func newMeasureSizeIsStricterAndStillValid(mode MeasureMode, size float64, lastMode MeasureMode, lastSize, lastComputedSize float64) bool {
	return lastMode == MeasureModeAtMost && mode == MeasureModeAtMost &&
		!IsUndefined(lastSize) && !IsUndefined(size) && !IsUndefined(lastComputedSize) &&
		lastSize > size &&
		(lastComputedSize <= size || FloatsEqual(size, lastComputedSize))
}

// canUseCachedMeasurement reports whether a measurement taken under the
// last constraints is still valid for the new ones. Sizes are compared
// after rounding to the pixel grid.
func canUseCachedMeasurement(
	widthMode MeasureMode, width float64,
	heightMode MeasureMode, height float64,
	last cachedMeasurement,
	marginRow, marginColumn float64,
	scale float64,
) bool {
	if (!IsUndefined(last.computedHeight) && last.computedHeight < 0) ||
		(!IsUndefined(last.computedWidth) && last.computedWidth < 0) {
		return false
	}
	effectiveWidth, effectiveHeight := width, height
	effectiveLastWidth, effectiveLastHeight := last.availableWidth, last.availableHeight
	if scale != 0 {
		effectiveWidth = roundValueToPixelGrid(width, scale, false, false)
		effectiveHeight = roundValueToPixelGrid(height, scale, false, false)
		effectiveLastWidth = roundValueToPixelGrid(last.availableWidth, scale, false, false)
		effectiveLastHeight = roundValueToPixelGrid(last.availableHeight, scale, false, false)
	}

	hasSameWidthSpec := last.widthMode == widthMode && FloatsEqual(effectiveLastWidth, effectiveWidth)
	hasSameHeightSpec := last.heightMode == heightMode && FloatsEqual(effectiveLastHeight, effectiveHeight)

	widthIsCompatible := hasSameWidthSpec ||
		sizeIsExactAndMatchesOldMeasuredSize(widthMode, width-marginRow, last.computedWidth) ||
		oldSizeIsUnspecifiedAndStillFits(widthMode, width-marginRow, last.widthMode, last.computedWidth) ||
		newMeasureSizeIsStricterAndStillValid(widthMode, width-marginRow, last.widthMode, last.availableWidth, last.computedWidth)

	heightIsCompatible := hasSameHeightSpec ||
		sizeIsExactAndMatchesOldMeasuredSize(heightMode, height-marginColumn, last.computedHeight) ||
		oldSizeIsUnspecifiedAndStillFits(heightMode, height-marginColumn, last.heightMode, last.computedHeight) ||
		newMeasureSizeIsStricterAndStillValid(heightMode, height-marginColumn, last.heightMode, last.availableHeight, last.computedHeight)

	return widthIsCompatible && heightIsCompatible
}
