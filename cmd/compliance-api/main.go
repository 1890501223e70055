// Command compliance-api serves the compliance task API.
package main

import (
	"os"
)

func main() {
	os.Exit(execute())
}
