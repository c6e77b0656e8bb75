// Package main demonstrates usage of the scg-structerr package.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/next-trace/scg-structerr/logsink"
	"github.com/next-trace/scg-structerr/structerr"
	"github.com/next-trace/scg-structerr/trace"
)

func loadCustomer(id string) error {
	return errors.Errorf("row %s not found", id)
}

func main() {
	logsink.Pretty = true
	logsink.Get(structerr.LoggerName).AddHandler(logsink.NewStreamHandler(os.Stdout))

	// Direct construction; logged on creation
	e := structerr.New("customer lookup disabled",
		structerr.WithCode("customer.disabled"),
		structerr.WithMetadata(map[string]any{"customer_id": "42"}),
	)
	fmt.Println(e, e.ToMap())

	// Wrap a cause while it is being handled, so the record carries its stack
	if err := loadCustomer("42"); err != nil {
		release := trace.Default.Handle(err)
		wrapped := structerr.Wrap(err, "customer.not_found", "customer 42 not found", nil,
			structerr.WithTraceMode(structerr.TraceCaptureOnce))
		release()

		fmt.Printf("%#v\n", wrapped)

		b, err := wrapped.MarshalJSON()
		if err != nil {
			panic(err)
		}
		fmt.Println(string(b))
	}

	// Recover a panic into a structured error
	func() {
		defer trace.Default.Rescue(func(err error) {
			fmt.Println(structerr.Ensure(err))
		})
		panic("nil map write")
	}()
}
