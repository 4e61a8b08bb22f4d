// Binary template_engine resolves ${name} placeholders in a
// template using stamp info files and explicit variables.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/byte4ever/kalamine/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func main() {
	var (
		stampInfoFile arrayFlags
		variable      arrayFlags
		imports       arrayFlags
		output        string
		tpl           string
		executable    bool
	)

	flag.Var(
		&stampInfoFile,
		"stamp_info_file",
		"Stamp info file path (repeatable)",
	)

	flag.Var(
		&variable,
		"variable",
		"Variable in NAME=VALUE format (repeatable)",
	)

	flag.Var(
		&imports,
		"imports",
		"Import in NAME=filename format (repeatable)",
	)

	flag.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty)",
	)

	flag.StringVar(
		&tpl, "template", "",
		"Input template file path (stdin if empty)",
	)

	flag.BoolVar(
		&executable, "executable", false,
		"Set executable bit on output file",
	)

	flag.Parse()

	en := templating.Engine{
		StampInfoFiles: stampInfoFile,
	}

	if err := en.Expand(
		tpl, output, variable, imports, executable,
	); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
