// Command stratum inspects and edits layered configuration files.
//
// It resolves the same layer stack the library does (defaults are the
// library caller's concern, so the CLI sees files, environment, and its
// own edits), prints effective values with their provenance, and writes
// changes back to the local configuration file.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dshills/stratum"
	"github.com/dshills/stratum/loader"
	"github.com/dshills/stratum/tree"
)

func main() {
	app := &cli.App{
		Name:  "stratum",
		Usage: "inspect and edit layered configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "app",
				Value: "stratum",
				Usage: "application name used to locate default config paths",
			},
			&cli.StringFlag{
				Name:  "global",
				Usage: "global config file (defaults to the app's user config path)",
			},
			&cli.StringFlag{
				Name:  "local",
				Usage: "local config file (defaults to ./<app>.toml)",
			},
			&cli.StringFlag{
				Name:  "env-prefix",
				Usage: "environment variable prefix for overrides (e.g. MYAPP_)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log source loading to stderr",
			},
		},
		Commands: []*cli.Command{
			getCommand(),
			setCommand(),
			unsetCommand(),
			dumpCommand(),
			sourcesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "stratum:", err)
		os.Exit(1)
	}
}

// openStore builds and loads a Store from the global CLI flags.
func openStore(c *cli.Context) (*stratum.Store, error) {
	appName := c.String("app")

	globalPath := c.String("global")
	if globalPath == "" {
		globalPath = stratum.DefaultGlobalPath(appName)
	}
	localPath := c.String("local")
	if localPath == "" {
		localPath = stratum.DefaultLocalPath(appName)
	}

	opts := []stratum.Option{
		stratum.WithGlobalPath(globalPath),
		stratum.WithLocalPath(localPath),
	}
	if prefix := c.String("env-prefix"); prefix != "" {
		opts = append(opts, stratum.WithEnvPrefix(prefix))
	}
	if c.Bool("verbose") {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		opts = append(opts, stratum.WithLogger(log))
	}

	s := stratum.New(opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// localPath resolves the file edits are written back to.
func localPath(c *cli.Context) string {
	if path := c.String("local"); path != "" {
		return path
	}
	return stratum.DefaultLocalPath(c.String("app"))
}

func pathArg(c *cli.Context) (tree.Path, error) {
	path := tree.ParsePath(c.Args().First())
	if len(path) == 0 {
		return nil, cli.Exit("a dot-separated path is required (e.g. server.port)", 2)
	}
	return path, nil
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the value at a path",
		ArgsUsage: "<section.key...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "most-specific",
				Usage: "fall back toward the root when the exact path is unset",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := pathArg(c)
			if err != nil {
				return err
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}

			var value any
			if c.Bool("most-specific") {
				value, err = s.GetMostSpecific(path[0], path[1:]...)
			} else {
				value, err = s.Get(path[0], path[1:]...)
			}
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			fmt.Println(value)
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "set a value and write it to the local config file",
		ArgsUsage: "<section.key...> <value>",
		Action: func(c *cli.Context) error {
			path, err := pathArg(c)
			if err != nil {
				return err
			}
			if c.NArg() < 2 {
				return cli.Exit("a value is required", 2)
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}

			value := loader.ParseScalar(c.Args().Get(1))
			if err := s.Set(value, path[0], path[1:]...); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return s.WriteFile(localPath(c))
		},
	}
}

func unsetCommand() *cli.Command {
	return &cli.Command{
		Name:      "unset",
		Usage:     "remove a value or section and write back the local config file",
		ArgsUsage: "<section.key...>",
		Action: func(c *cli.Context) error {
			path, err := pathArg(c)
			if err != nil {
				return err
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}

			if err := s.Unset(path[0], path[1:]...); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return s.WriteFile(localPath(c))
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "print the merged configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "toml",
				Usage: "output format: toml, yaml, or json",
			},
		},
		Action: func(c *cli.Context) error {
			format, err := loader.ParseFormat(c.String("format"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}

			data, err := loader.EncoderFor(format).Encode(s.Export())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func sourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "list every value with the layer that set it",
		Action: func(c *cli.Context) error {
			s, err := openStore(c)
			if err != nil {
				return err
			}

			sources := s.Sources()
			paths := make([]string, 0, len(sources))
			for path := range sources {
				paths = append(paths, path)
			}
			sort.Strings(paths)

			for _, path := range paths {
				fmt.Printf("%s\t%s\n", path, sources[path])
			}
			return nil
		},
	}
}
