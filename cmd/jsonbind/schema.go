package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/reoring/jsonbind/schema"
)

// schemaCommand prints the JSON Schema of a YAML type declaration.
type schemaCommand struct {
	file     *string
	typeName *string
	alias    *bool
}

func (cmd *schemaCommand) run(*kingpin.ParseContext) error {
	f, err := os.Open(*cmd.file)
	if err != nil {
		exitWithErr(err)
	}
	defer f.Close()
	reg, err := schema.LoadYAML(f)
	if err != nil {
		exitWithErr(err)
	}
	root := reg.Root()
	if *cmd.typeName != "" {
		root = reg.Get(*cmd.typeName)
	}
	if root == nil {
		exitWithErr(errors.Errorf("type %q not declared, have %v", *cmd.typeName, reg.Names()))
	}
	out, err := schema.MarshalJSONSchema(root, schema.ExportOptions{UseAlias: *cmd.alias})
	if err != nil {
		exitWithErr(err)
	}
	os.Stdout.Write(append(out, '\n'))
	return nil
}

func addSchemaCommand(app *kingpin.Application) {
	cmd := &schemaCommand{}
	c := app.Command("schema", "Export a YAML type declaration as JSON Schema.").Action(cmd.run)
	cmd.typeName = c.Flag("type", "Type to export; defaults to the root type.").String()
	cmd.alias = c.Flag("alias", "Name properties by alias.").Bool()
	cmd.file = c.Arg("file", "YAML type declarations.").Required().ExistingFile()
}
