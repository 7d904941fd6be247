package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/romshark/jscan/v2"

	"github.com/reoring/jsonbind"
)

// validateCommand checks documents without printing them.
type validateCommand struct {
	g     *globalFlags
	flags *bindingFlags
	files *[]string
}

func (cmd *validateCommand) run(*kingpin.ParseContext) error {
	logger := cmd.g.logger()
	b, err := cmd.flags.binding(cmd.g)
	if err != nil {
		exitWithErr(err)
	}
	windows, err := cmd.flags.parsedWindows()
	if err != nil {
		exitWithErr(err)
	}
	files := *cmd.files
	if len(files) == 0 {
		files = []string{"-"}
	}
	failed := 0
	for _, f := range files {
		if err := cmd.check(b, f, windows); err != nil {
			level.Error(logger).Log("msg", "invalid document", "file", f, "err", err)
			failed++
			continue
		}
		level.Info(logger).Log("msg", "valid", "file", f)
	}
	if failed > 0 {
		exitWithErr(fmt.Errorf("%d of %d documents invalid", failed, len(files)))
	}
	return nil
}

func (cmd *validateCommand) check(b *jsonbind.Binding, file string, windows []jsonbind.Window) error {
	in, err := cmd.flags.input(file)
	if err != nil {
		return err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	if *cmd.flags.strict {
		// strict documents are plain JSON; reject bad syntax before binding
		if jerr := jscan.Validate(data); jerr.IsErr() {
			return errors.Errorf("syntax: %s", jerr.Error())
		}
	}
	_, err = b.Unmarshal(bytes.NewReader(data), windows...)
	return err
}

func addValidateCommand(app *kingpin.Application, g *globalFlags) {
	cmd := &validateCommand{g: g}
	c := app.Command("validate", "Check that documents bind against a schema.").Action(cmd.run)
	cmd.flags = addBindingFlags(c)
	cmd.files = c.Arg("file", "Input documents; none reads stdin.").Strings()
}

