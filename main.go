package main

import (
	"log"

	"github.com/briefmatch/briefmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
