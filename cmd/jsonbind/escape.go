package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/reoring/jsonbind/escape"
)

type escapeCommand struct {
	reverse  *bool
	raw      *bool
	allowNil *bool
	decode   *bool
	text     *[]string
}

func (cmd *escapeCommand) run(*kingpin.ParseContext) error {
	text := strings.Join(*cmd.text, " ")
	if len(*cmd.text) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitWithErr(err)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}
	fmt.Println(cmd.apply(text))
	return nil
}

func (cmd *escapeCommand) apply(text string) string {
	switch {
	case *cmd.reverse && *cmd.decode:
		return escape.DecodeUnicode(escape.Unescape(text, *cmd.allowNil), *cmd.allowNil)
	case *cmd.reverse:
		return escape.Unescape(text, *cmd.allowNil)
	default:
		return escape.Escape(text, *cmd.raw, *cmd.allowNil)
	}
}

func addEscapeCommand(app *kingpin.Application) {
	cmd := &escapeCommand{}
	c := app.Command("escape", "Escape text for a JSON string body, or reverse it with --reverse.").Action(cmd.run)
	cmd.reverse = c.Flag("reverse", "Unescape instead.").Short('r').Bool()
	cmd.raw = c.Flag("raw", "Leave '/' alone.").Bool()
	cmd.allowNil = c.Flag("allow-nil", "Keep NUL characters.").Bool()
	cmd.decode = c.Flag("decode-unicode", "With --reverse, also decode \\uXXXX sequences.").Bool()
	cmd.text = c.Arg("text", "Text; none reads stdin.").Strings()
}
