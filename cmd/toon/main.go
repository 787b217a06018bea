// toon - TOON codec CLI tool
//
// Usage:
//
//	toon encode [--from json|extjson|bson] [file]   Convert to TOON
//	toon decode [--to json|extjson|bson] [file]     Convert TOON back
//	toon stats [file...]                            Compare JSON and TOON size
//	toon version                                    Print version info
//
// If no file is given, reads from stdin. Defaults come from TOON_* environment
// variables and are overridden by flags.
package main

import (
	"fmt"
	"os"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "toon: config: %v\n", err)
		os.Exit(2)
	}
	if err := execute(newRootCmd(cfg)); err != nil {
		os.Exit(1)
	}
}
