// kap - keyboard trigger sequences
// Runs declarative key sequences against the global keyboard or a terminal.
package main

import (
	"log"
	"os"
)

var version = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("kap: %v", err)
	}
}
