package jit

import (
	"fmt"
	"math"
)

// builtinFunc is the implementation of a built-in function.
type builtinFunc func(e *Engine, args []float64) float64

// builtinFuncs are the functions which are always resolvable by name: they can
// be called after being declared with `extern`.
var builtinFuncs = map[string]struct {
	arity int
	fn    builtinFunc
}{
	"putchard": {1, putchard},
	"printd":   {1, printd},

	"sin":   {1, mathFunc(math.Sin)},
	"cos":   {1, mathFunc(math.Cos)},
	"tan":   {1, mathFunc(math.Tan)},
	"atan":  {1, mathFunc(math.Atan)},
	"exp":   {1, mathFunc(math.Exp)},
	"log":   {1, mathFunc(math.Log)},
	"sqrt":  {1, mathFunc(math.Sqrt)},
	"fabs":  {1, mathFunc(math.Abs)},
	"floor": {1, mathFunc(math.Floor)},
	"ceil":  {1, mathFunc(math.Ceil)},
	"pow": {2, func(_ *Engine, args []float64) float64 {
		return math.Pow(args[0], args[1])
	}},
	"atan2": {2, func(_ *Engine, args []float64) float64 {
		return math.Atan2(args[0], args[1])
	}},
}

// putchard writes the character whose code is its argument to the output.
func putchard(e *Engine, args []float64) float64 {
	e.out.Write([]byte{byte(int(args[0]))})
	return 0
}

// printd writes its argument to the output followed by a newline.
func printd(e *Engine, args []float64) float64 {
	fmt.Fprintf(e.out, "%f\n", args[0])
	return 0
}

func mathFunc(f func(float64) float64) builtinFunc {
	return func(_ *Engine, args []float64) float64 {
		return f(args[0])
	}
}
