package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/reoring/jsonbind/i18n"
)

type globalFlags struct {
	logLevel *string
	lang     *string
}

func (g *globalFlags) logger() log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	allow := level.AllowInfo()
	switch *g.logLevel {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	}
	return level.NewFilter(l, allow)
}

func main() {
	app := kingpin.New("jsonbind", "Read and write JSON against a declared type model.")
	g := &globalFlags{
		logLevel: app.Flag("log.level", "Log level: debug, info, warn, error.").Default("info").Enum("debug", "info", "warn", "error"),
		lang:     app.Flag("lang", "Language of issue messages.").Default("en").Enum("en", "ja"),
	}
	app.PreAction(func(*kingpin.ParseContext) error {
		i18n.SetLanguage(*g.lang)
		return nil
	})
	addDecodeCommand(app, g)
	addValidateCommand(app, g)
	addSchemaCommand(app)
	addEscapeCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
