//go:build js && wasm

package main

import (
	"fmt"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/smallyu/go-ntkit/internal/bridge"
)

var toolkit = bridge.New(slog.New(slog.NewTextHandler(os.Stdout, nil)))

func main() {
	c := make(chan struct{})

	fmt.Println("go-ntkit WASM initialized")

	js.Global().Set("GoNTKit", map[string]interface{}{
		"Factor":      js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.Factor(a[0]) })),
		"IsPrime":     js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.IsPrime(a[0]) })),
		"Euler":       js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.Euler(a[0]) })),
		"Mobius":      js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.Mobius(a[0]) })),
		"DiscreteLog": js.FuncOf(stringCall(3, func(a []string) (any, error) { return toolkit.DiscreteLog(a[0], a[1], a[2]) })),
		"SquareRoot":  js.FuncOf(stringCall(2, func(a []string) (any, error) { return toolkit.SquareRoot(a[0], a[1]) })),
		"NewKeyPair":  js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.NewKeyPair(a[0]) })),
		"Encrypt":     js.FuncOf(stringCall(2, func(a []string) (any, error) { return toolkit.Encrypt(a[0], a[1]) })),
		"Decrypt":     js.FuncOf(stringCall(2, func(a []string) (any, error) { return toolkit.Decrypt(a[0], a[1]) })),
		"ProveKey":    js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.ProveKey(a[0]) })),
		"VerifyKey":   js.FuncOf(stringCall(1, func(a []string) (any, error) { return toolkit.VerifyKey(a[0]) })),
		"Forget": js.FuncOf(stringCall(1, func(a []string) (any, error) {
			toolkit.Forget(a[0])
			return nil, nil
		})),
	})

	<-c
}

// stringCall adapts fn to the js.FuncOf signature. Every argument is read as
// a string; errors are returned to JS as "error: ..." strings.
func stringCall(arity int, fn func(args []string) (any, error)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) != arity {
			return fmt.Sprintf("error: expected %d argument(s), got %d", arity, len(args))
		}
		in := make([]string, len(args))
		for i, a := range args {
			in[i] = a.String()
		}
		out, err := fn(in)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return out
	}
}
