package main

import (
	"context"
	"log"
	"os"

	"github.com/inkwell/inkwell/pkg/inkwell"
)

func main() {
	if err := inkwell.Main(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
