package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/vec/search"
	sqlite "modernc.org/sqlite"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// SQL function names per metric.
var distanceFunctions = map[domain.DistanceMetric]string{
	domain.MetricL2:     "vec_l2",
	domain.MetricCosine: "vec_cosine",
}

type scalarFunc = func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error)

// registerDistanceFunctions makes vec_l2 and vec_cosine available to
// connections opened after the first call. The driver registry is global,
// so registration runs once and its error is returned on every call.
var registerDistanceFunctions = sync.OnceValue(func() error {
	return registerFunctions(sqlite.RegisterDeterministicScalarFunction)
})

func registerFunctions(register func(name string, nArg int32, fn scalarFunc) error) error {
	for _, f := range []struct {
		name string
		fn   scalarFunc
	}{
		{"vec_l2", sqlL2},
		{"vec_cosine", sqlCosine},
	} {
		if err := register(f.name, 2, f.fn); err != nil {
			return fmt.Errorf("registering %s: %w", f.name, err)
		}
	}
	return nil
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b []float32) float64 {
	d := float64(search.Float32s(a).EuclideanDistance(b))
	return d * d
}

// CosineDistance returns 1 - cosine similarity. A zero vector is at
// distance 1 from everything.
func CosineDistance(a, b []float32) float64 {
	va := search.Float32s(a)
	ma := va.Magnitude()
	mb := search.Float32s(b).Magnitude()
	if ma == 0 || mb == 0 {
		return 1
	}
	return float64(va.CosineDistanceWithMagnitude(b, ma, mb))
}

// Distance computes the distance of a and b under metric.
func Distance(metric domain.DistanceMetric, a, b []float32) float64 {
	if metric == domain.MetricCosine {
		return CosineDistance(a, b)
	}
	return SquaredL2(a, b)
}

func sqlL2(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return sqlDistance("vec_l2", domain.MetricL2, args)
}

func sqlCosine(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return sqlDistance("vec_cosine", domain.MetricCosine, args)
}

func sqlDistance(name string, metric domain.DistanceMetric, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := blobArg(name, args[0])
	if err != nil {
		return nil, err
	}
	b, err := blobArg(name, args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%s: dimension mismatch %d vs %d", name, len(a), len(b))
	}
	return Distance(metric, a, b), nil
}

func blobArg(name string, arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeVector(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T, want BLOB", name, arg)
	}
}
