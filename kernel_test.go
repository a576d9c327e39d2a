package qkern

import (
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKernelEstimation(t *testing.T) {
	Convey("Given a two-qubit estimator on the local simulator", t, func() {
		est, err := NewEstimator(NewSimulator(42), 2, WithShots(8192))
		So(err, ShouldBeNil)
		ctx := context.Background()

		x := []float64{0.32, 0.11}
		y := []float64{0.83, 0.42}

		Convey("Identical points should yield a kernel of one", func() {
			exact, err := est.Exact(x, x)
			So(err, ShouldBeNil)
			So(exact, ShouldAlmostEqual, 1.0, 1e-10)

			k, err := est.EstimatePair(ctx, x, x)
			So(err, ShouldBeNil)
			So(k, ShouldAlmostEqual, 1.0, 0.05)

			overlap, err := est.EstimateOverlap(ctx, x, x)
			So(err, ShouldBeNil)
			So(overlap, ShouldAlmostEqual, 1.0, 0.05)
		})

		Convey("Both estimation methods should converge on the exact value", func() {
			exact, err := est.Exact(x, y)
			So(err, ShouldBeNil)
			So(exact, ShouldBeBetweenOrEqual, 0, 1)

			ancilla, err := est.EstimatePair(ctx, x, y)
			So(err, ShouldBeNil)
			overlap, err := est.EstimateOverlap(ctx, x, y)
			So(err, ShouldBeNil)

			So(ancilla, ShouldAlmostEqual, exact, 0.05)
			So(overlap, ShouldAlmostEqual, exact, 0.05)
			So(ancilla, ShouldAlmostEqual, overlap, 0.08)
		})

		Convey("Swapping the two points should leave the kernel unchanged", func() {
			forward, err := est.Exact(x, y)
			So(err, ShouldBeNil)
			backward, err := est.Exact(y, x)
			So(err, ShouldBeNil)
			So(forward, ShouldAlmostEqual, backward, 1e-10)

			a, err := est.EstimatePair(ctx, x, y)
			So(err, ShouldBeNil)
			b, err := est.EstimatePair(ctx, y, x)
			So(err, ShouldBeNil)
			So(a, ShouldAlmostEqual, b, 0.08)
		})

		Convey("Estimates should stay in [0,1] for any finite shot count", func() {
			for _, shots := range []int{16, 64, 256} {
				small, err := NewEstimator(NewSimulator(int64(shots)), 2, WithShots(shots))
				So(err, ShouldBeNil)
				k, err := small.EstimatePair(ctx, x, y)
				So(err, ShouldBeNil)
				So(k, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("The split parameter-vector entry point should match the pair form", func() {
			k, err := est.Estimate(ctx, []float64{0.32, 0.11, 0.83, 0.42})
			So(err, ShouldBeNil)

			exact, err := est.Exact(x, y)
			So(err, ShouldBeNil)
			So(k, ShouldAlmostEqual, exact, 0.05)
		})

		Convey("An odd-shaped parameter vector should be rejected", func() {
			_, err := est.Estimate(ctx, []float64{0.1, 0.2, 0.3})
			So(err, ShouldNotBeNil)
		})

		Convey("A cancelled context should abort estimation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := est.EstimatePair(cancelled, x, y)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAncillaPostProcessing(t *testing.T) {
	Convey("Given raw ancilla tallies", t, func() {
		Convey("Absent bins should count as zero occurrences", func() {
			amp := ancillaAmplitude(Counts{"0": 100}, Counts{}, 100)
			So(real(amp), ShouldAlmostEqual, 1.0, 1e-12)
			So(imag(amp), ShouldAlmostEqual, 0.0, 1e-12)
		})

		Convey("Extreme tallies should clamp the kernel into [0,1]", func() {
			amp := ancillaAmplitude(Counts{"0": 100}, Counts{"0": 100}, 100)
			k := kernelFromAmplitude(amp)
			So(k, ShouldEqual, 1.0)
		})

		Convey("All-one tallies should give a kernel of one as well", func() {
			amp := ancillaAmplitude(Counts{"1": 50}, Counts{"1": 50}, 50)
			k := kernelFromAmplitude(amp)
			So(k, ShouldEqual, 1.0)
		})

		Convey("Balanced tallies should give a kernel of zero", func() {
			amp := ancillaAmplitude(Counts{"0": 50, "1": 50}, Counts{"0": 50, "1": 50}, 100)
			So(kernelFromAmplitude(amp), ShouldAlmostEqual, 0.0, 1e-12)
		})
	})
}

func TestKernelMatrix(t *testing.T) {
	Convey("Given a small dataset", t, func() {
		data := [][]float64{
			{0.32, 0.11},
			{0.83, 0.42},
			{0.10, 0.90},
		}
		est, err := NewEstimator(NewSimulator(42), 2, WithShots(8192), WithWorkers(2))
		So(err, ShouldBeNil)

		m, err := est.KernelMatrix(context.Background(), data)
		So(err, ShouldBeNil)
		spew.Dump(m.RawSymmetric().Data)

		Convey("The diagonal should be exactly one", func() {
			for i := range data {
				So(m.At(i, i), ShouldEqual, 1.0)
			}
		})

		Convey("Off-diagonal entries should match the exact kernel", func() {
			for i := range data {
				for j := i + 1; j < len(data); j++ {
					exact, err := est.Exact(data[i], data[j])
					So(err, ShouldBeNil)
					So(m.At(i, j), ShouldAlmostEqual, exact, 0.05)
					So(m.At(j, i), ShouldEqual, m.At(i, j))
				}
			}
		})
	})

	Convey("Given an empty dataset", t, func() {
		est, err := NewEstimator(NewSimulator(1), 2)
		So(err, ShouldBeNil)
		_, err = est.KernelMatrix(context.Background(), nil)
		So(err, ShouldNotBeNil)
	})
}
