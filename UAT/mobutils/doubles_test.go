package mobutils_test

import (
	"github.com/junittest/doubles"
	"github.com/junittest/doubles/UAT/mobutils"
)

//go:generate go run ../../doublegen mobutils.Calculator
//go:generate go run ../../doublegen mobutils.EmptyChecker

// shadowMobUtils replaces MobUtils.Add with an implementation that doubles the sum and
// reports the call to the harness router. The other methods are the real ones.
type shadowMobUtils struct {
	*mobutils.MobUtils

	harness *doubles.Harness
}

func newShadowMobUtils(h *doubles.Harness) shadowMobUtils {
	return shadowMobUtils{MobUtils: mobutils.New(h.Logger()), harness: h}
}

func (s shadowMobUtils) Add(i, j int) int {
	result := 2 * (i + j)

	s.harness.Notify(doubles.KeyFor[mobutils.MobUtils]("Add"), i, j)

	return result
}

// panickyCalculator cannot run before its dependencies exist.
type panickyCalculator struct{}

func (panickyCalculator) Add(int, int) int {
	panic("calculator is not initialised")
}

func (panickyCalculator) CheckLength(string) bool {
	panic("calculator is not initialised")
}

var _ mobutils.Calculator = shadowMobUtils{}
