// Command pentrail is the passive fingerprinting and pentest
// recommendation CLI.
package main

import "github.com/pentrail/pentrail/internal/cli"

func main() {
	cli.Execute()
}
