//go:build js && wasm

// Command eui64wasm exposes EUI-64 address derivation to JavaScript when built
// for WebAssembly. It registers validateMAC, validateIPv6Prefix and
// calculateEUI64 on the global object.
package main

import (
	"syscall/js"

	"github.com/mdlayher/eui64calc/eui64"
)

const errArgs = "invalid number of arguments"

func main() {
	var c eui64.Calculator

	js.Global().Set("validateMAC", js.FuncOf(validate(c.ValidateMAC)))
	js.Global().Set("validateIPv6Prefix", js.FuncOf(validate(c.ValidateIPv6Prefix)))
	js.Global().Set("calculateEUI64", js.FuncOf(calculate(c)))

	// Keep the exported functions alive for the lifetime of the page.
	select {}
}

// validate wraps fn as a JavaScript function taking one string and returning
// an empty string on success or the error message otherwise.
func validate(fn func(string) error) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		if len(args) != 1 {
			return errArgs
		}

		if err := fn(args[0].String()); err != nil {
			return err.Error()
		}

		return ""
	}
}

// calculate returns a JavaScript function taking a MAC address and an optional
// prefix and returning an object describing the eui64.Outcome.
func calculate(c eui64.Calculator) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		var o eui64.Outcome
		switch len(args) {
		case 1:
			o = c.InterfaceOutcome(args[0].String())
		case 2:
			if prefix := args[1].String(); prefix != "" {
				o = c.Outcome(args[0].String(), prefix)
			} else {
				o = c.InterfaceOutcome(args[0].String())
			}
		default:
			return js.ValueOf(map[string]any{"ok": false, "kind": "", "error": errArgs})
		}

		switch o := o.(type) {
		case eui64.Success:
			return js.ValueOf(map[string]any{
				"ok":          true,
				"interfaceID": o.InterfaceID,
				"fullIP":      o.FullIP,
			})
		case eui64.Failure:
			return js.ValueOf(map[string]any{
				"ok":    false,
				"kind":  o.Kind.String(),
				"error": o.Message,
			})
		default:
			panic("eui64wasm: unhandled outcome")
		}
	}
}
