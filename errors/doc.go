/*
Package errors provides error values that carry a stack trace captured at
their creation point, and that can be chained with `Wrap` while preserving
`errors.Is`/`errors.As` compatibility with the standard library.

Most broker code should prefer sentinel errors declared with `New` or
`Errorf` at the point of failure, and `Wrap` when adding context while
propagating an error up the call stack:

	if err := client.validate(); err != nil {
	    return errors.Wrap(err, "invalid client configuration")
	}

Use `%+v` when logging an error to also print its captured stack trace.
*/
package errors
