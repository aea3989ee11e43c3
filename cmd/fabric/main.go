// Command fabric plays tree documents through the renderer core and
// prints what a host would see.
package main

import (
	"context"
	"log"
	"os"

	"github.com/go-drift/fabric/cmd/fabric/cmd"
)

func main() {
	log.SetFlags(0)
	if err := cmd.Execute(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
