// sqlparam - SQL placeholder substitution tool
//
// sqlparam fills the '?' placeholders of logged prepared statements with the
// parameter values logged next to them and prints runnable SQL.
package main

import (
	"os"

	"github.com/ccollicutt/sqlparam/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
