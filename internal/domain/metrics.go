package domain

import "math"

const kgPerLb = 0.45359237

// Safe weekly rates used for the progress forecast.
const (
	LossKgPerWeek = 0.5
	GainKgPerWeek = 0.25
)

// Unit returns the selected weight unit, defaulting to kilograms.
func (f *FormData) Unit() WeightUnit {
	if f.WeightUnit != nil && WeightUnit(*f.WeightUnit) == UnitLb {
		return UnitLb
	}
	return UnitKg
}

// ToKg converts w from unit to kilograms.
func ToKg(w float64, unit WeightUnit) float64 {
	if unit == UnitLb {
		return w * kgPerLb
	}
	return w
}

// BMI returns the body-mass index from height and current weight.
func (f *FormData) BMI() (float64, bool) {
	if f.Height == nil || f.CurrentWeight == nil || *f.Height <= 0 {
		return 0, false
	}
	m := *f.Height / 100
	return ToKg(*f.CurrentWeight, f.Unit()) / (m * m), true
}

// BMICategory names the WHO band for bmi.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "healthy"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// WeightDelta returns target minus current weight in the selected unit.
func (f *FormData) WeightDelta() (float64, bool) {
	if f.CurrentWeight == nil || f.TargetWeight == nil {
		return 0, false
	}
	return *f.TargetWeight - *f.CurrentWeight, true
}

// ForecastWeeks estimates how many weeks reaching the target weight takes
// at a safe rate. Zero means the target is already met.
func (f *FormData) ForecastWeeks() (int, bool) {
	delta, ok := f.WeightDelta()
	if !ok {
		return 0, false
	}
	kg := ToKg(math.Abs(delta), f.Unit())
	rate := LossKgPerWeek
	if delta > 0 {
		rate = GainKgPerWeek
	}
	return int(math.Ceil(kg / rate)), true
}
