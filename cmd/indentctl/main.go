// Command indentctl provisions tenants, imports legacy indents and keeps
// document counters aligned.
package main

import (
	"os"

	"indentflow/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
